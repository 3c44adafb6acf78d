package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// ffmpegBin is overridable so tests can point at a stand-in binary.
var ffmpegBin = "ffmpeg"

// NotFoundError reports that the ffmpeg binary is not installed.
type NotFoundError struct {
	Bin string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found on PATH; install it to transcribe non-standard audio", e.Bin)
}

// ConversionError reports a failed conversion, with ffmpeg's stderr attached.
type ConversionError struct {
	Err    error
	Stderr string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("ffmpeg conversion failed: %v", e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ConvertToCanonical rewrites inPath as 16 kHz mono 16-bit PCM at outPath.
// It is the fallback for containers the in-process pipeline cannot handle.
func ConvertToCanonical(inPath, outPath string) error {
	args := []string{
		"-i", inPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}
	log.Debug("converting audio", "bin", ffmpegBin, "args", strings.Join(args, " "))

	cmd := exec.Command(ffmpegBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return &NotFoundError{Bin: ffmpegBin}
		}
		return &ConversionError{Err: err, Stderr: stderr.String()}
	}
	return nil
}
