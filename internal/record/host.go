package record

// SampleFormat identifies the native encoding of captured frames.
type SampleFormat int

const (
	FormatF32 SampleFormat = iota // 32-bit IEEE float
	FormatI16                     // signed 16-bit PCM
	FormatU16                     // unsigned 16-bit PCM
	FormatOther
)

// String returns the format name.
func (f SampleFormat) String() string {
	switch f {
	case FormatF32:
		return "f32"
	case FormatI16:
		return "i16"
	case FormatU16:
		return "u16"
	default:
		return "unsupported"
	}
}

func compatibleFormat(f SampleFormat) bool {
	return f == FormatF32 || f == FormatI16 || f == FormatU16
}

// SupportedConfig describes one capture configuration a device offers:
// a channel count, a sample format, and the rate range it covers.
type SupportedConfig struct {
	Channels int
	Format   SampleFormat
	MinRate  int
	MaxRate  int
}

// StreamConfig is a fully negotiated capture configuration.
type StreamConfig struct {
	Channels   int
	SampleRate int
	Format     SampleFormat
}

// FrameHandler receives sample batches from the platform audio callback,
// one method per native encoding. Implementations must not block.
type FrameHandler interface {
	HandleF32(batch []float32)
	HandleI16(batch []int16)
	HandleU16(batch []uint16)
}

// Device is one enumerable audio input.
type Device interface {
	Name() string
	SupportedConfigs() ([]SupportedConfig, error)
}

// Stream is a live capture stream bound to the thread that opened it.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Host abstracts the platform audio layer so the engine can run against
// mock devices in tests.
type Host interface {
	Initialize() error
	Terminate() error
	InputDevices() ([]Device, error)
	DefaultInputDevice() (Device, error)
	OpenStream(dev Device, cfg StreamConfig, h FrameHandler) (Stream, error)
}
