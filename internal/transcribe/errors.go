package transcribe

import "fmt"

// AudioReadError reports malformed WAV input or an unsupported sample
// layout.
type AudioReadError struct {
	Err error
}

func (e *AudioReadError) Error() string { return fmt.Sprintf("reading audio failed: %v", e.Err) }
func (e *AudioReadError) Unwrap() error { return e.Err }

// UnsupportedSampleRateError reports a source rate too far below the
// canonical rate for in-process resampling.
type UnsupportedSampleRateError struct {
	Rate int
}

func (e *UnsupportedSampleRateError) Error() string {
	return fmt.Sprintf("sample rate %d Hz is too low to resample to %d Hz", e.Rate, CanonicalRate)
}
