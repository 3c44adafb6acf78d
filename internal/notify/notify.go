// Package notify shows desktop notifications.
package notify

import "github.com/gen2brain/beeep"

// Notify shows a desktop notification. Failures are ignored; a missing
// notification daemon must never break a transcription.
func Notify(title, message string) {
	_ = beeep.Notify(title, message, "")
}
