// Package wavio reads and writes RIFF/WAVE containers. It provides a
// chunk-walking parser for arbitrary PCM input, a one-shot encoder for the
// canonical 16-bit format, and a streaming Sink used by the recorder.
package wavio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// WAV format codes from the fmt chunk.
const (
	FormatPCM       uint16 = 1
	FormatIEEEFloat uint16 = 3
)

const headerLen = 44

// Info describes the format and data layout of a parsed WAV container.
type Info struct {
	AudioFormat   uint16
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataOffset    int
	DataSize      int
}

// Frames returns the number of sample frames in the data chunk.
func (i Info) Frames() int {
	bytesPerFrame := i.Channels * i.BitsPerSample / 8
	if bytesPerFrame == 0 {
		return 0
	}
	return i.DataSize / bytesPerFrame
}

// Duration returns the audio duration in seconds.
func (i Info) Duration() float64 {
	if i.SampleRate == 0 {
		return 0
	}
	return float64(i.Frames()) / float64(i.SampleRate)
}

// Parse walks the RIFF chunks of data and returns the container layout.
// Unknown chunks (LIST, fact, ...) are skipped. The fmt chunk must precede
// the data chunk.
func Parse(data []byte) (Info, error) {
	if len(data) < 12 {
		return Info{}, fmt.Errorf("wav too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) {
		return Info{}, fmt.Errorf("missing RIFF header")
	}
	if !bytes.Equal(data[8:12], []byte("WAVE")) {
		return Info{}, fmt.Errorf("missing WAVE form type")
	}

	var info Info
	haveFmt := false
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body > len(data) {
			return Info{}, fmt.Errorf("corrupt chunk %q at offset %d", id, pos)
		}

		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return Info{}, fmt.Errorf("fmt chunk truncated")
			}
			info.AudioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return Info{}, fmt.Errorf("data chunk before fmt chunk")
			}
			if body+size > len(data) {
				// Header written before the recording finished; trust
				// what is actually present.
				size = len(data) - body
			}
			info.DataOffset = body
			info.DataSize = size
			return info, nil
		}

		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word aligned
		}
	}
	if !haveFmt {
		return Info{}, fmt.Errorf("no fmt chunk found")
	}
	return Info{}, fmt.Errorf("no data chunk found")
}

// ReadFloat32 parses data and returns its interleaved samples normalized to
// [-1.0, 1.0]: 16-bit PCM is scaled by 1/32768, 32-bit PCM by 1/2147483648,
// and 32-bit float is passed through. Other layouts are rejected.
func ReadFloat32(data []byte) (Info, []float32, error) {
	info, err := Parse(data)
	if err != nil {
		return Info{}, nil, err
	}
	if info.Channels < 1 {
		return Info{}, nil, fmt.Errorf("invalid channel count %d", info.Channels)
	}

	raw := data[info.DataOffset : info.DataOffset+info.DataSize]
	var samples []float32

	switch {
	case info.AudioFormat == FormatPCM && info.BitsPerSample == 16:
		n := len(raw) / 2
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			s := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
			samples[i] = float32(s) / 32768.0
		}
	case info.AudioFormat == FormatPCM && info.BitsPerSample == 32:
		n := len(raw) / 4
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			s := int32(binary.LittleEndian.Uint32(raw[i*4 : i*4+4]))
			samples[i] = float32(float64(s) / 2147483648.0)
		}
	case info.AudioFormat == FormatIEEEFloat && info.BitsPerSample == 32:
		n := len(raw) / 4
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
			samples[i] = math.Float32frombits(bits)
		}
	default:
		return Info{}, nil, fmt.Errorf("unsupported sample layout: format %d, %d bits",
			info.AudioFormat, info.BitsPerSample)
	}

	return info, samples, nil
}

// ReadInt16 parses data, which must be 16-bit PCM, and returns its samples
// normalized to [-1.0, 1.0]. Zero-length audio yields an empty slice.
func ReadInt16(data []byte) ([]float32, error) {
	info, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if info.AudioFormat != FormatPCM || info.BitsPerSample != 16 {
		return nil, fmt.Errorf("expected 16-bit PCM, got format %d at %d bits",
			info.AudioFormat, info.BitsPerSample)
	}
	raw := data[info.DataOffset : info.DataOffset+info.DataSize]
	n := len(raw) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}

// EncodeInt16 serializes samples into a complete 16-bit PCM WAV container.
// The header is written with final sizes, so the result needs no fixup.
func EncodeInt16(samples []int16, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, headerLen+dataSize))

	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2

	buf.WriteString("RIFF")
	writeU32(buf, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeU32(buf, 16)
	writeU16(buf, FormatPCM)
	writeU16(buf, uint16(channels))
	writeU32(buf, uint32(sampleRate))
	writeU32(buf, uint32(byteRate))
	writeU16(buf, uint16(blockAlign))
	writeU16(buf, 16)
	buf.WriteString("data")
	writeU32(buf, uint32(dataSize))
	for _, s := range samples {
		writeU16(buf, uint16(s))
	}
	return buf.Bytes()
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
