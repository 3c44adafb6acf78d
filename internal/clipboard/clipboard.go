// Package clipboard inserts transcribed text into the focused application.
package clipboard

import (
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// PasteText writes text to the clipboard, sends the paste chord, and
// restores the previous clipboard contents. The sleeps give the target
// application time to observe the clipboard before it is restored.
func PasteText(text string) error {
	orig, _ := clipboard.ReadAll()
	if err := clipboard.WriteAll(text); err != nil {
		return err
	}
	time.Sleep(80 * time.Millisecond)

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	if err := kb.Launching(); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return clipboard.WriteAll(orig)
}

// CopyText writes text to the clipboard without pasting.
func CopyText(text string) error {
	return clipboard.WriteAll(text)
}
