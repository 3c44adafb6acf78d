// Package engine wraps the on-device speech-to-text implementations and
// manages the lifecycle of the single loaded model.
package engine

import "fmt"

// Variant identifies one inference engine implementation.
type Variant int

const (
	VariantWhisper Variant = iota
	VariantVosk
)

// String returns the variant name as used in configuration.
func (v Variant) String() string {
	switch v {
	case VariantWhisper:
		return "whisper"
	case VariantVosk:
		return "vosk"
	default:
		return "unknown"
	}
}

// ParseVariant maps a configuration string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "whisper", "":
		return VariantWhisper, nil
	case "vosk":
		return VariantVosk, nil
	default:
		return 0, &TypeMismatchError{Requested: s}
	}
}

// TypeMismatchError reports a request for an engine outside the supported
// set.
type TypeMismatchError struct {
	Requested string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("unknown engine %q (supported: whisper, vosk)", e.Requested)
}

// InferenceParams carries per-call tuning for an engine.
type InferenceParams struct {
	Language string
	Threads  uint
}

// Engine is one loaded speech-to-text implementation. Samples are mono
// float32 at 16 kHz in [-1.0, 1.0].
type Engine interface {
	Transcribe(samples []float32, p InferenceParams) (string, error)
	Unload()
}

// Factory builds an Engine by loading the model at path.
type Factory func(v Variant, path string) (Engine, error)

// DefaultFactory loads the production engine implementations.
func DefaultFactory(v Variant, path string) (Engine, error) {
	switch v {
	case VariantWhisper:
		return newWhisperEngine(path)
	case VariantVosk:
		return newVoskEngine(path)
	default:
		return nil, &TypeMismatchError{Requested: v.String()}
	}
}
