package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestConvertMissingBinary(t *testing.T) {
	orig := ffmpegBin
	ffmpegBin = "ffmpeg-that-does-not-exist"
	defer func() { ffmpegBin = orig }()

	err := ConvertToCanonical("in.wav", "out.wav")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in not available on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("writing stand-in script: %v", err)
	}
	return path
}

func TestConvertFailureCarriesStderr(t *testing.T) {
	orig := ffmpegBin
	ffmpegBin = writeScript(t, `echo "Invalid data found" >&2; exit 1`)
	defer func() { ffmpegBin = orig }()

	err := ConvertToCanonical("in.wav", "out.wav")
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if ce.Stderr == "" {
		t.Error("expected stderr to be captured")
	}
}

func TestConvertSuccess(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.wav")
	orig := ffmpegBin
	// The stand-in writes its last argument, like ffmpeg writes its output.
	ffmpegBin = writeScript(t, `for last; do :; done; : > "$last"`)
	defer func() { ffmpegBin = orig }()

	if err := ConvertToCanonical("in.wav", out); err != nil {
		t.Fatalf("ConvertToCanonical failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected output file to exist: %v", err)
	}
}
