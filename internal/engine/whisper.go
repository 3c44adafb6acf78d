package engine

import (
	"errors"
	"io"
	"strings"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// whisperEngine runs ggml whisper models through the whisper.cpp bindings.
type whisperEngine struct {
	model whisper.Model
}

func newWhisperEngine(path string) (Engine, error) {
	model, err := whisper.New(path)
	if err != nil {
		return nil, err
	}
	return &whisperEngine{model: model}, nil
}

func (e *whisperEngine) Transcribe(samples []float32, p InferenceParams) (string, error) {
	ctx, err := e.model.NewContext()
	if err != nil {
		return "", err
	}
	if p.Language != "" {
		if err := ctx.SetLanguage(p.Language); err != nil {
			return "", err
		}
	}
	if p.Threads > 0 {
		ctx.SetThreads(p.Threads)
	}
	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return "", err
	}

	var sb strings.Builder
	for {
		seg, err := ctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.TrimSpace(seg.Text))
	}
	return sb.String(), nil
}

func (e *whisperEngine) Unload() {
	e.model.Close()
}
