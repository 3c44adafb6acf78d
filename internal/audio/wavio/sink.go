package wavio

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleEncoding identifies the encoding of sample batches fed to a Sink.
type SampleEncoding int

const (
	EncodingF32 SampleEncoding = iota // 32-bit IEEE float
	EncodingI16                       // signed 16-bit PCM
	EncodingU16                       // unsigned 16-bit capture, stored re-centered as signed PCM
)

// String returns the encoding name.
func (e SampleEncoding) String() string {
	switch e {
	case EncodingF32:
		return "f32"
	case EncodingI16:
		return "i16"
	case EncodingU16:
		return "u16"
	default:
		return "unknown"
	}
}

// WriteError reports a failed sample write.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("wav sink write failed: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// FinalizeError reports a failed container finalization.
type FinalizeError struct {
	Err error
}

func (e *FinalizeError) Error() string { return fmt.Sprintf("wav sink finalize failed: %v", e.Err) }
func (e *FinalizeError) Unwrap() error { return e.Err }

// Sink is an append-only WAV writer shared between the audio callback
// (writer) and the owning session (finalizer). Until Finalize runs, the
// on-disk header carries provisional sizes; Finalize seeks back and patches
// the final sample counts. Finalize is idempotent.
type Sink struct {
	mu        sync.Mutex
	file      *os.File
	enc       *wav.Encoder
	format    *audio.Format
	path      string
	rate      int
	channels  int
	float     bool
	samples   int // interleaved samples written across all channels
	finalized bool
}

// NewSink creates the WAV file at path. The container format follows the
// stream encoding: float input produces an IEEE-float container, both
// 16-bit integer encodings produce signed PCM.
func NewSink(path string, sampleRate, channels int, encoding SampleEncoding) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create wav file: %w", err)
	}

	var enc *wav.Encoder
	isFloat := false
	switch encoding {
	case EncodingF32:
		enc = wav.NewEncoder(f, sampleRate, 32, channels, int(FormatIEEEFloat))
		isFloat = true
	case EncodingI16, EncodingU16:
		enc = wav.NewEncoder(f, sampleRate, 16, channels, int(FormatPCM))
	default:
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("unsupported sink encoding %d", encoding)
	}

	return &Sink{
		file:     f,
		enc:      enc,
		format:   &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		path:     path,
		rate:     sampleRate,
		channels: channels,
		float:    isFloat,
	}, nil
}

// Path returns the location of the WAV file.
func (s *Sink) Path() string { return s.path }

// WriteF32 appends a batch of float samples.
func (s *Sink) WriteF32(batch []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return &WriteError{Err: fmt.Errorf("sink already finalized")}
	}
	if s.float {
		for _, v := range batch {
			if err := s.enc.WriteFrame(v); err != nil {
				return &WriteError{Err: err}
			}
		}
	} else {
		data := make([]int, len(batch))
		for i, v := range batch {
			data[i] = int(clampToI16(v))
		}
		if err := s.writePCM16(data); err != nil {
			return err
		}
	}
	s.samples += len(batch)
	return nil
}

// WriteI16 appends a batch of signed 16-bit samples.
func (s *Sink) WriteI16(batch []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return &WriteError{Err: fmt.Errorf("sink already finalized")}
	}
	if s.float {
		for _, v := range batch {
			if err := s.enc.WriteFrame(float32(v) / 32768.0); err != nil {
				return &WriteError{Err: err}
			}
		}
	} else {
		data := make([]int, len(batch))
		for i, v := range batch {
			data[i] = int(v)
		}
		if err := s.writePCM16(data); err != nil {
			return err
		}
	}
	s.samples += len(batch)
	return nil
}

// WriteU16 appends a batch of unsigned 16-bit samples. WAV has no unsigned
// 16-bit layout, so samples are re-centered around zero before writing.
func (s *Sink) WriteU16(batch []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return &WriteError{Err: fmt.Errorf("sink already finalized")}
	}
	if s.float {
		for _, v := range batch {
			centered := float32(int32(v)-32768) / 32768.0
			if err := s.enc.WriteFrame(centered); err != nil {
				return &WriteError{Err: err}
			}
		}
	} else {
		data := make([]int, len(batch))
		for i, v := range batch {
			data[i] = int(int32(v) - 32768)
		}
		if err := s.writePCM16(data); err != nil {
			return err
		}
	}
	s.samples += len(batch)
	return nil
}

func (s *Sink) writePCM16(data []int) error {
	buf := &audio.IntBuffer{Format: s.format, Data: data, SourceBitDepth: 16}
	if err := s.enc.Write(buf); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Metadata returns the sample rate, channel count, and duration in seconds
// of everything written so far.
func (s *Sink) Metadata() (sampleRate, channels int, durationSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dur := 0.0
	if s.rate > 0 && s.channels > 0 {
		dur = float64(s.samples/s.channels) / float64(s.rate)
	}
	return s.rate, s.channels, dur
}

// Finalize patches the container header with final sizes and closes the
// file. Safe to call more than once.
func (s *Sink) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return nil
	}
	s.finalized = true
	if err := s.enc.Close(); err != nil {
		s.file.Close()
		return &FinalizeError{Err: err}
	}
	if err := s.file.Close(); err != nil {
		return &FinalizeError{Err: err}
	}
	return nil
}

func clampToI16(v float32) int16 {
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767.0)
}
