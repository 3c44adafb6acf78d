package transcribe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vishesh-sachan/epicenter/internal/audio/ffmpeg"
	"github.com/vishesh-sachan/epicenter/internal/audio/wavio"
)

// CanonicalRate is the sample rate every engine consumes.
const CanonicalRate = 16000

// maxResampleRatio bounds how far below the canonical rate the in-process
// resampler will go; lower rates fall through to the external decoder.
const maxResampleRatio = 8

// NormalizeForTranscription converts arbitrary WAV bytes into 16 kHz mono
// 16-bit PCM. Already-canonical input is returned unchanged. Otherwise an
// in-process parse/downmix/resample is tried first, and on any failure the
// input is handed to ffmpeg; the in-process failure is logged, not
// surfaced, unless ffmpeg fails too.
func NormalizeForTranscription(data []byte) ([]byte, error) {
	if info, err := wavio.Parse(data); err == nil && isCanonical(info) {
		return data, nil
	}

	out, err := normalizePure(data)
	if err == nil {
		return out, nil
	}
	log.Warn("in-process audio normalization failed, trying ffmpeg", "err", err)
	return normalizeExternal(data)
}

func isCanonical(info wavio.Info) bool {
	return info.AudioFormat == wavio.FormatPCM &&
		info.BitsPerSample == 16 &&
		info.Channels == 1 &&
		info.SampleRate == CanonicalRate
}

func normalizePure(data []byte) ([]byte, error) {
	info, samples, err := wavio.ReadFloat32(data)
	if err != nil {
		return nil, &AudioReadError{Err: err}
	}

	mono := downmix(samples, info.Channels)
	if info.SampleRate != CanonicalRate {
		if info.SampleRate*maxResampleRatio < CanonicalRate {
			return nil, &UnsupportedSampleRateError{Rate: info.SampleRate}
		}
		mono = Resample(mono, info.SampleRate, CanonicalRate)
	}

	pcm := make([]int16, len(mono))
	for i, v := range mono {
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		pcm[i] = int16(v * 32767.0)
	}
	return wavio.EncodeInt16(pcm, CanonicalRate, 1), nil
}

// downmix averages interleaved channels into mono.
func downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

func normalizeExternal(data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "epicenter-audio-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(inPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("staging audio for conversion: %w", err)
	}
	if err := ffmpeg.ConvertToCanonical(inPath, outPath); err != nil {
		return nil, err
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading converted audio: %w", err)
	}
	return out, nil
}

// ExtractSamples reads normalized float samples out of canonical 16-bit
// PCM bytes. Zero-length audio yields an empty slice, which callers treat
// as nothing to transcribe.
func ExtractSamples(data []byte) ([]float32, error) {
	samples, err := wavio.ReadInt16(data)
	if err != nil {
		return nil, &AudioReadError{Err: err}
	}
	return samples, nil
}
