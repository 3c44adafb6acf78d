//go:build !windows

package hotkey

import "fmt"

// Register is not supported on non-Windows builds.
func Register(startKey, cancelKey string, hook bool, handler func(id int)) error {
	return fmt.Errorf("global hotkeys not supported on this platform")
}
