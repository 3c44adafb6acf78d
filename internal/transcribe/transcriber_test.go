package transcribe

import (
	"testing"

	"github.com/vishesh-sachan/epicenter/internal/audio/wavio"
	"github.com/vishesh-sachan/epicenter/internal/engine"
)

type captureEngine struct {
	samples int
}

func (e *captureEngine) Transcribe(samples []float32, p engine.InferenceParams) (string, error) {
	e.samples = len(samples)
	return "hello world", nil
}

func (e *captureEngine) Unload() {}

func TestTranscribeWAV(t *testing.T) {
	eng := &captureEngine{}
	loads := 0
	m := engine.NewManager(func(v engine.Variant, path string) (engine.Engine, error) {
		loads++
		return eng, nil
	}, 0)
	tr := NewTranscriber(m)

	in := wavio.EncodeInt16(make([]int16, 8000), 16000, 1)
	text, err := tr.TranscribeWAV(in, engine.VariantWhisper, "base.bin", engine.InferenceParams{})
	if err != nil {
		t.Fatalf("TranscribeWAV failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("unexpected transcript %q", text)
	}
	if eng.samples != 8000 {
		t.Errorf("expected engine to receive 8000 samples, got %d", eng.samples)
	}
	if loads != 1 {
		t.Errorf("expected 1 model load, got %d", loads)
	}
}

func TestTranscribeWAVEmptyAudio(t *testing.T) {
	loads := 0
	m := engine.NewManager(func(v engine.Variant, path string) (engine.Engine, error) {
		loads++
		return &captureEngine{}, nil
	}, 0)
	tr := NewTranscriber(m)

	in := wavio.EncodeInt16(nil, 16000, 1)
	text, err := tr.TranscribeWAV(in, engine.VariantWhisper, "base.bin", engine.InferenceParams{})
	if err != nil {
		t.Fatalf("TranscribeWAV failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty transcript, got %q", text)
	}
	if loads != 0 {
		t.Errorf("expected no model load for empty audio, got %d", loads)
	}
}
