package record

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 512

// rateLadder holds the rates probed when synthesizing a device's supported
// rate ranges. PortAudio only answers yes/no per exact rate, so the ladder
// endpoints stand in for the range the device actually covers.
var rateLadder = []int{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000}

// PortAudioHost is the production Host backed by PortAudio.
type PortAudioHost struct{}

func NewPortAudioHost() *PortAudioHost { return &PortAudioHost{} }

func (h *PortAudioHost) Initialize() error { return portaudio.Initialize() }
func (h *PortAudioHost) Terminate() error  { return portaudio.Terminate() }

func (h *PortAudioHost) InputDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var devs []Device
	for _, info := range infos {
		if info.MaxInputChannels > 0 {
			devs = append(devs, &paDevice{info: info})
		}
	}
	return devs, nil
}

func (h *PortAudioHost) DefaultInputDevice() (Device, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, err
	}
	return &paDevice{info: info}, nil
}

func (h *PortAudioHost) OpenStream(dev Device, cfg StreamConfig, fh FrameHandler) (Stream, error) {
	pd, ok := dev.(*paDevice)
	if !ok {
		return nil, fmt.Errorf("device %q does not belong to this host", dev.Name())
	}
	params := pd.streamParams(cfg.Channels, cfg.SampleRate)

	var s *portaudio.Stream
	var err error
	switch cfg.Format {
	case FormatF32:
		s, err = portaudio.OpenStream(params, func(in []float32) { fh.HandleF32(in) })
	case FormatI16:
		s, err = portaudio.OpenStream(params, func(in []int16) { fh.HandleI16(in) })
	default:
		return nil, fmt.Errorf("sample format %s not available through portaudio", cfg.Format)
	}
	if err != nil {
		return nil, err
	}
	return &paStream{s: s}, nil
}

type paDevice struct {
	info *portaudio.DeviceInfo
}

func (d *paDevice) Name() string { return d.info.Name }

// SupportedConfigs probes the device across the rate ladder for each
// channel count and sample format, collapsing the accepted rates into
// min/max ranges.
func (d *paDevice) SupportedConfigs() ([]SupportedConfig, error) {
	channelCounts := []int{1}
	if d.info.MaxInputChannels > 1 {
		channelCounts = append(channelCounts, d.info.MaxInputChannels)
	}

	var configs []SupportedConfig
	for _, format := range []SampleFormat{FormatF32, FormatI16} {
		for _, ch := range channelCounts {
			minRate, maxRate := 0, 0
			for _, rate := range rateLadder {
				if !d.supports(ch, rate, format) {
					continue
				}
				if minRate == 0 || rate < minRate {
					minRate = rate
				}
				if rate > maxRate {
					maxRate = rate
				}
			}
			if minRate > 0 {
				configs = append(configs, SupportedConfig{
					Channels: ch,
					Format:   format,
					MinRate:  minRate,
					MaxRate:  maxRate,
				})
			}
		}
	}
	return configs, nil
}

func (d *paDevice) supports(channels, rate int, format SampleFormat) bool {
	params := d.streamParams(channels, rate)
	switch format {
	case FormatF32:
		return portaudio.IsFormatSupported(params, func(in []float32) {}) == nil
	case FormatI16:
		return portaudio.IsFormatSupported(params, func(in []int16) {}) == nil
	default:
		return false
	}
}

func (d *paDevice) streamParams(channels, rate int) portaudio.StreamParameters {
	return portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   d.info,
			Channels: channels,
			Latency:  d.info.DefaultLowInputLatency,
		},
		SampleRate:      float64(rate),
		FramesPerBuffer: framesPerBuffer,
	}
}

type paStream struct {
	s *portaudio.Stream
}

func (s *paStream) Start() error { return s.s.Start() }
func (s *paStream) Stop() error  { return s.s.Stop() }
func (s *paStream) Close() error { return s.s.Close() }
