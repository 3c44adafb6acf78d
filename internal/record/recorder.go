package record

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vishesh-sachan/epicenter/internal/audio/wavio"
)

// AudioRecording is the immutable result of a stopped recording.
type AudioRecording struct {
	SampleRate      int
	Channels        int
	DurationSeconds float64
	FilePath        string
}

// LevelFunc receives the loudness bars computed from each full level window.
type LevelFunc func(bars [NumBars]float32)

type cmdKind int

const (
	cmdStart cmdKind = iota
	cmdStop
	cmdShutdown
)

type command struct {
	kind  cmdKind
	reply chan error
}

// Recorder manages at most one capture session at a time. The live stream
// is owned by a dedicated worker goroutine pinned to its OS thread; all
// commands rendezvous with the worker's loop so callers observe state
// changes only after the audio side has applied them.
type Recorder struct {
	host     Host
	onLevels LevelFunc

	mu      sync.Mutex
	session *session
}

type session struct {
	id   string
	cfg  StreamConfig
	sink *wavio.Sink

	cmds chan command
	done chan struct{} // closed when the worker exits

	recording atomic.Bool

	lvlMu  sync.Mutex
	window []float32
	emit   LevelFunc
}

// NewRecorder creates a recorder on the given host. onLevels may be nil.
func NewRecorder(host Host, onLevels LevelFunc) *Recorder {
	return &Recorder{host: host, onLevels: onLevels}
}

// EnumerateDevices lists the names of available input devices.
func (r *Recorder) EnumerateDevices() ([]string, error) {
	devs, err := r.host.InputDevices()
	if err != nil {
		return nil, &DeviceEnumerationError{Err: err}
	}
	names := make([]string, 0, len(devs))
	for _, d := range devs {
		names = append(names, d.Name())
	}
	return names, nil
}

// InitSession prepares a new capture session, replacing any prior one.
// The worker thread builds and starts the stream; a build failure is
// logged there and surfaces as a dead worker on the next command.
func (r *Recorder) InitSession(device, outputDir, sessionID string, preferredRate int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeSessionLocked()

	if fi, err := os.Stat(outputDir); err == nil && !fi.IsDir() {
		return &InvalidOutputPathError{Path: outputDir}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	dev, err := ResolveDevice(r.host, device)
	if err != nil {
		return err
	}
	configs, err := dev.SupportedConfigs()
	if err != nil {
		return &DeviceEnumerationError{Err: err}
	}
	cfg, err := Negotiate(dev.Name(), configs, preferredRate)
	if err != nil {
		return err
	}

	path := filepath.Join(outputDir, sessionID+".wav")
	sink, err := wavio.NewSink(path, cfg.SampleRate, cfg.Channels, sinkEncoding(cfg.Format))
	if err != nil {
		return err
	}

	s := &session{
		id:     sessionID,
		cfg:    cfg,
		sink:   sink,
		cmds:   make(chan command),
		done:   make(chan struct{}),
		window: make([]float32, 0, levelWindowSize),
		emit:   r.onLevels,
	}
	r.session = s

	log.Debug("session initialized",
		"id", sessionID, "device", dev.Name(),
		"rate", cfg.SampleRate, "channels", cfg.Channels, "format", cfg.Format)

	go r.runWorker(s, dev)
	return nil
}

// runWorker owns the platform stream for the session's lifetime. Stream
// construction must happen on the owning thread, so it is pinned.
func (r *Recorder) runWorker(s *session, dev Device) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)

	stream, err := r.host.OpenStream(dev, s.cfg, s)
	if err != nil {
		log.Error("opening audio stream failed", "device", dev.Name(), "err", err)
		return
	}
	if err := stream.Start(); err != nil {
		log.Error("starting audio stream failed", "device", dev.Name(), "err", err)
		stream.Close()
		return
	}
	defer func() {
		stream.Stop()
		stream.Close()
	}()

	for cmd := range s.cmds {
		switch cmd.kind {
		case cmdStart:
			s.recording.Store(true)
			cmd.reply <- nil
		case cmdStop:
			s.recording.Store(false)
			cmd.reply <- nil
		case cmdShutdown:
			s.recording.Store(false)
			cmd.reply <- nil
			return
		}
	}
}

// send issues a command and blocks for the worker's acknowledgment. A
// worker that died during stream setup is detected instead of blocking.
func (s *session) send(kind cmdKind) error {
	cmd := command{kind: kind, reply: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return &NoActiveSessionError{Reason: "worker not responsive"}
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		return &NoActiveSessionError{Reason: "worker not responsive"}
	}
}

// StartRecording begins capturing into the session sink.
func (r *Recorder) StartRecording() error {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()
	if s == nil {
		return &NoActiveSessionError{}
	}
	return s.send(cmdStart)
}

// StopRecording stops capture, finalizes the WAV file, and returns its
// metadata. Finalize runs ordered-after the worker's acknowledgment, so
// no callback write races it.
func (r *Recorder) StopRecording() (AudioRecording, error) {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()
	if s == nil {
		return AudioRecording{}, &NoActiveSessionError{}
	}
	if err := s.send(cmdStop); err != nil {
		return AudioRecording{}, err
	}
	rate, channels, dur := s.sink.Metadata()
	if err := s.sink.Finalize(); err != nil {
		return AudioRecording{}, err
	}
	return AudioRecording{
		SampleRate:      rate,
		Channels:        channels,
		DurationSeconds: dur,
		FilePath:        s.sink.Path(),
	}, nil
}

// CancelRecording stops best-effort, deletes the partial file, and tears
// down the session.
func (r *Recorder) CancelRecording() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session
	if s == nil {
		return nil
	}
	path := s.sink.Path()
	r.closeSessionLocked()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("removing canceled recording failed", "path", path, "err", err)
	}
	return nil
}

// CloseSession tears down the active session. Safe to call repeatedly.
func (r *Recorder) CloseSession() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeSessionLocked()
	return nil
}

func (r *Recorder) closeSessionLocked() {
	s := r.session
	if s == nil {
		return
	}
	r.session = nil
	if err := s.send(cmdShutdown); err == nil {
		<-s.done
	}
	if err := s.sink.Finalize(); err != nil {
		log.Warn("finalizing sink on close failed", "id", s.id, "err", err)
	}
}

// CurrentRecordingID returns the session id, but only while actively
// recording.
func (r *Recorder) CurrentRecordingID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil || !r.session.recording.Load() {
		return "", false
	}
	return r.session.id, true
}

// NegotiatedConfig reports the active session's stream configuration.
func (r *Recorder) NegotiatedConfig() (StreamConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return StreamConfig{}, false
	}
	return r.session.cfg, true
}

func sinkEncoding(f SampleFormat) wavio.SampleEncoding {
	switch f {
	case FormatF32:
		return wavio.EncodingF32
	case FormatU16:
		return wavio.EncodingU16
	default:
		return wavio.EncodingI16
	}
}

// HandleF32 implements FrameHandler on the real-time audio thread.
func (s *session) HandleF32(batch []float32) {
	if !s.recording.Load() {
		return
	}
	if err := s.sink.WriteF32(batch); err != nil {
		log.Error("sink write failed", "err", err)
		return
	}
	s.accumulate(len(batch), func(i int) float32 { return batch[i] })
}

// HandleI16 implements FrameHandler on the real-time audio thread.
func (s *session) HandleI16(batch []int16) {
	if !s.recording.Load() {
		return
	}
	if err := s.sink.WriteI16(batch); err != nil {
		log.Error("sink write failed", "err", err)
		return
	}
	s.accumulate(len(batch), func(i int) float32 { return float32(batch[i]) / 32768.0 })
}

// HandleU16 implements FrameHandler on the real-time audio thread.
func (s *session) HandleU16(batch []uint16) {
	if !s.recording.Load() {
		return
	}
	if err := s.sink.WriteU16(batch); err != nil {
		log.Error("sink write failed", "err", err)
		return
	}
	s.accumulate(len(batch), func(i int) float32 { return float32(int32(batch[i])-32768) / 32768.0 })
}

// accumulate feeds normalized samples into the level window and emits a
// bar set each time the window fills.
func (s *session) accumulate(n int, at func(int) float32) {
	s.lvlMu.Lock()
	for i := 0; i < n; i++ {
		s.window = append(s.window, at(i))
		if len(s.window) == levelWindowSize {
			bars := computeLevels(s.window)
			s.window = s.window[:0]
			if s.emit != nil {
				s.emit(bars)
			}
		}
	}
	s.lvlMu.Unlock()
}
