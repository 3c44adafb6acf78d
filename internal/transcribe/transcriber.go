package transcribe

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vishesh-sachan/epicenter/internal/engine"
)

// Transcriber glues normalization, sample extraction, and the model
// manager into one call.
type Transcriber struct {
	manager *engine.Manager
}

func NewTranscriber(m *engine.Manager) *Transcriber {
	return &Transcriber{manager: m}
}

// TranscribeWAV normalizes the audio and runs it through the requested
// engine. Empty audio returns an empty transcript, not an error.
func (t *Transcriber) TranscribeWAV(data []byte, v engine.Variant, modelPath string, p engine.InferenceParams) (string, error) {
	norm, err := NormalizeForTranscription(data)
	if err != nil {
		return "", err
	}
	samples, err := ExtractSamples(norm)
	if err != nil {
		return "", err
	}
	if len(samples) == 0 {
		log.Debug("nothing to transcribe")
		return "", nil
	}

	start := time.Now()
	text, err := t.manager.Transcribe(v, modelPath, samples, p)
	if err != nil {
		return "", err
	}
	log.Debug("transcription finished",
		"audio", time.Duration(float64(len(samples))/CanonicalRate*float64(time.Second)),
		"took", time.Since(start))
	return text, nil
}

// TranscribeFile reads a WAV file and transcribes it.
func (t *Transcriber) TranscribeFile(path string, v engine.Variant, modelPath string, p engine.InferenceParams) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return t.TranscribeWAV(data, v, modelPath, p)
}
