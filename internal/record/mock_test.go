package record

import (
	"fmt"
	"sync"
)

// mockHost is an in-memory Host whose streams hand the registered
// FrameHandler back to the test, so tests drive the audio callback
// directly.
type mockHost struct {
	mu      sync.Mutex
	devices []*mockDevice
	openErr error

	handler FrameHandler
	streams []*mockStream
	opened  chan struct{}
}

type mockDevice struct {
	name    string
	configs []SupportedConfig
}

func (d *mockDevice) Name() string { return d.name }
func (d *mockDevice) SupportedConfigs() ([]SupportedConfig, error) { return d.configs, nil }

type mockStream struct {
	mu      sync.Mutex
	started bool
	closed  bool
}

func (s *mockStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *mockStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

func (s *mockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func newMockHost(devices ...*mockDevice) *mockHost {
	return &mockHost{devices: devices, opened: make(chan struct{}, 8)}
}

func (h *mockHost) Initialize() error { return nil }
func (h *mockHost) Terminate() error  { return nil }

func (h *mockHost) InputDevices() ([]Device, error) {
	devs := make([]Device, len(h.devices))
	for i, d := range h.devices {
		devs[i] = d
	}
	return devs, nil
}

func (h *mockHost) DefaultInputDevice() (Device, error) {
	if len(h.devices) == 0 {
		return nil, fmt.Errorf("no input devices")
	}
	return h.devices[0], nil
}

func (h *mockHost) OpenStream(dev Device, cfg StreamConfig, fh FrameHandler) (Stream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.openErr != nil {
		return nil, h.openErr
	}
	h.handler = fh
	s := &mockStream{}
	h.streams = append(h.streams, s)
	h.opened <- struct{}{}
	return s, nil
}

// callbackHandler waits until the worker has opened the stream and returns
// the handler it registered.
func (h *mockHost) callbackHandler() FrameHandler {
	<-h.opened
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handler
}

func monoMockDevice(name string) *mockDevice {
	return &mockDevice{
		name: name,
		configs: []SupportedConfig{
			{Channels: 1, Format: FormatI16, MinRate: 8000, MaxRate: 48000},
		},
	}
}
