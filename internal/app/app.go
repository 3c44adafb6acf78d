package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vishesh-sachan/epicenter/internal/clipboard"
	"github.com/vishesh-sachan/epicenter/internal/config"
	"github.com/vishesh-sachan/epicenter/internal/engine"
	"github.com/vishesh-sachan/epicenter/internal/hotkey"
	"github.com/vishesh-sachan/epicenter/internal/models"
	"github.com/vishesh-sachan/epicenter/internal/notify"
	"github.com/vishesh-sachan/epicenter/internal/record"
	"github.com/vishesh-sachan/epicenter/internal/transcribe"
)

// App wires the recorder, the model manager, and the transcription
// pipeline together for the interactive and file modes.
type App struct {
	cfg         config.Config
	host        record.Host
	recorder    *record.Recorder
	manager     *engine.Manager
	transcriber *transcribe.Transcriber
	variant     engine.Variant
	modelPath   string
	params      engine.InferenceParams
}

// New resolves the configured engine and prepares the pipeline. Model
// resolution is deferred until a mode that transcribes actually runs.
func New(cfg config.Config) (*App, error) {
	variant, err := engine.ParseVariant(cfg.Engine)
	if err != nil {
		return nil, err
	}

	manager := engine.NewManager(engine.DefaultFactory,
		time.Duration(cfg.IdleTimeoutMin)*time.Minute)

	return &App{
		cfg:         cfg,
		host:        record.NewPortAudioHost(),
		manager:     manager,
		transcriber: transcribe.NewTranscriber(manager),
		variant:     variant,
		params: engine.InferenceParams{
			Language: cfg.Language,
			Threads:  uint(cfg.Threads),
		},
	}, nil
}

// resolveModel fills in the model path, downloading catalog models on
// first use. An explicit MODEL_PATH bypasses the catalog entirely.
func (a *App) resolveModel(ctx context.Context) error {
	if a.cfg.ModelPath != "" {
		a.modelPath = a.cfg.ModelPath
		return nil
	}
	path, err := models.Ensure(ctx, a.cfg.ModelsDir, a.cfg.Model)
	if err != nil {
		return err
	}
	a.modelPath = path
	return nil
}

// RunRecordMode registers the hotkeys and serves recording toggles until
// the process is killed.
func (a *App) RunRecordMode(ctx context.Context) error {
	if err := a.resolveModel(ctx); err != nil {
		return err
	}
	if err := a.host.Initialize(); err != nil {
		return fmt.Errorf("initializing audio host: %w", err)
	}
	defer a.host.Terminate()

	outputDir := config.RecordingsDir(&a.cfg)
	if !a.cfg.KeepRecordings {
		cleanupOldRecordings(outputDir)
	}

	a.recorder = record.NewRecorder(a.host, levelEmitter())
	defer a.recorder.CloseSession()

	var actionMu sync.Mutex
	handler := func(id int) {
		actionMu.Lock()
		defer actionMu.Unlock()

		switch id {
		case hotkey.EventStart:
			if _, recording := a.recorder.CurrentRecordingID(); recording {
				a.finishRecording()
			} else {
				a.beginRecording(outputDir)
			}
		case hotkey.EventCancel:
			if _, recording := a.recorder.CurrentRecordingID(); !recording {
				log.Debug("not recording, nothing to cancel")
				return
			}
			if err := a.recorder.CancelRecording(); err != nil {
				log.Error("cancel failed", "err", err)
				return
			}
			log.Info("recording canceled")
			if a.cfg.Notification {
				notify.Notify("Epicenter", "Recording canceled")
			}
		}
	}

	go a.idleEvictionLoop()

	if err := hotkey.Register(a.cfg.StartKey, a.cfg.CancelKey, a.cfg.HotKeyHook, handler); err != nil {
		log.Warn("hotkeys unavailable, falling back to stdin commands", "err", err)
		return a.stdinLoop(handler)
	}

	log.Info("ready", "start", a.cfg.StartKey, "cancel", a.cfg.CancelKey,
		"engine", a.variant, "model", a.modelPath)
	select {}
}

// stdinLoop drives the same handler from typed commands when global
// hotkeys cannot be registered on this platform.
func (a *App) stdinLoop(handler func(id int)) error {
	fmt.Println("commands: start (toggle recording), cancel, quit")
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		switch strings.TrimSpace(strings.ToLower(sc.Text())) {
		case "start", "stop", "s":
			handler(hotkey.EventStart)
		case "cancel", "c":
			handler(hotkey.EventCancel)
		case "quit", "q", "exit":
			return nil
		case "":
		default:
			fmt.Println("commands: start (toggle recording), cancel, quit")
		}
	}
	return sc.Err()
}

func (a *App) beginRecording(outputDir string) {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	if err := a.recorder.InitSession(a.cfg.Device, outputDir, id, a.cfg.PreferredRate); err != nil {
		log.Error("session init failed", "err", err)
		if a.cfg.Notification {
			notify.Notify("Epicenter", "Could not open microphone")
		}
		return
	}
	if err := a.recorder.StartRecording(); err != nil {
		log.Error("start failed", "err", err)
		a.recorder.CloseSession()
		return
	}
	cfg, _ := a.recorder.NegotiatedConfig()
	log.Info("recording", "session", id, "rate", cfg.SampleRate, "channels", cfg.Channels)
	if a.cfg.Notification {
		notify.Notify("Epicenter", "Recording started")
	}
}

func (a *App) finishRecording() {
	rec, err := a.recorder.StopRecording()
	if err != nil {
		log.Error("stop failed", "err", err)
		return
	}
	log.Info("recording finished", "duration", fmt.Sprintf("%.1fs", rec.DurationSeconds),
		"path", rec.FilePath)

	text, err := a.transcriber.TranscribeFile(rec.FilePath, a.variant, a.modelPath, a.params)
	if !a.cfg.KeepRecordings {
		os.Remove(rec.FilePath)
	}
	if err != nil {
		log.Error("transcription failed", "err", err)
		if a.cfg.Notification {
			notify.Notify("Epicenter", "Transcription failed")
		}
		return
	}
	if text == "" {
		log.Info("nothing transcribed")
		if a.cfg.Notification {
			notify.Notify("Epicenter", "No speech detected")
		}
		return
	}

	if err := clipboard.PasteText(text); err != nil {
		log.Error("paste failed", "err", err)
		if err := clipboard.CopyText(text); err == nil && a.cfg.Notification {
			notify.Notify("Epicenter", "Paste failed, text left on clipboard")
		}
		return
	}
	log.Info("transcript pasted", "chars", len(text))
	if a.cfg.Notification {
		notify.Notify("Epicenter", "Transcription pasted")
	}
}

// RunFileMode transcribes an existing audio file and writes the result to
// a .txt file next to it (or outputPath when given).
func (a *App) RunFileMode(ctx context.Context, inputPath, outputPath string) error {
	if err := a.resolveModel(ctx); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("file %q stat failed: %w", inputPath, err)
	}

	text, err := a.transcriber.TranscribeFile(inputPath, a.variant, a.modelPath, a.params)
	if err != nil {
		return err
	}
	defer a.manager.Unload()

	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputPath = filepath.Join(".", base+".txt")
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return err
	}
	log.Info("transcript written", "path", outputPath, "chars", len(text))
	return nil
}

// RunDevicesMode prints the available input devices.
func (a *App) RunDevicesMode() error {
	if err := a.host.Initialize(); err != nil {
		return fmt.Errorf("initializing audio host: %w", err)
	}
	defer a.host.Terminate()

	rec := record.NewRecorder(a.host, nil)
	names, err := rec.EnumerateDevices()
	if err != nil {
		return err
	}
	fmt.Println("Input devices:")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
	fmt.Println("  default")
	return nil
}

// idleEvictionLoop frees model memory after the configured idle period.
func (a *App) idleEvictionLoop() {
	if a.cfg.IdleTimeoutMin == 0 {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		a.manager.UnloadIfIdle()
	}
}

// levelEmitter renders the loudness bars at debug level. The overlay UI
// this app once fed lives elsewhere; the meter remains useful for
// checking that a microphone is actually delivering signal.
func levelEmitter() record.LevelFunc {
	glyphs := []rune(" .:-=+*#%@")
	return func(bars [record.NumBars]float32) {
		out := make([]rune, len(bars))
		for i, b := range bars {
			idx := int(b * float32(len(glyphs)-1))
			out[i] = glyphs[idx]
		}
		log.Debug("levels", "meter", string(out))
	}
}

// cleanupOldRecordings removes WAV files left behind by a crashed run.
func cleanupOldRecordings(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".wav") {
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				log.Warn("removing stale recording failed", "path", path, "err", err)
			} else {
				log.Debug("removed stale recording", "path", path)
			}
		}
	}
}
