package engine

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	vosk "github.com/alphacep/vosk-api/go"
)

// voskEngine runs Kaldi models through the vosk bindings. Vosk consumes
// 16-bit PCM bytes, so samples are clamped and re-quantized on the way in.
type voskEngine struct {
	model *vosk.VoskModel
}

func newVoskEngine(path string) (Engine, error) {
	model, err := vosk.NewModel(path)
	if err != nil {
		return nil, err
	}
	return &voskEngine{model: model}, nil
}

func (e *voskEngine) Transcribe(samples []float32, p InferenceParams) (string, error) {
	rec, err := vosk.NewRecognizer(e.model, 16000.0)
	if err != nil {
		return "", err
	}
	defer rec.Free()

	pcm := make([]byte, len(samples)*2)
	for i, v := range samples {
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*32767.0)))
	}
	rec.AcceptWaveform(pcm)

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(rec.FinalResult()), &result); err != nil {
		return "", fmt.Errorf("decoding recognizer result: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}

func (e *voskEngine) Unload() {
	e.model.Free()
}
