package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultIdleTimeout is how long a loaded model survives without use.
const DefaultIdleTimeout = 5 * time.Minute

// ModelLoadError reports a failed model load. The slot is left empty so
// the next request retries from clean state.
type ModelLoadError struct {
	Variant Variant
	Path    string
	Err     error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("loading %s model from %q failed: %v", e.Variant, e.Path, e.Err)
}
func (e *ModelLoadError) Unwrap() error { return e.Err }

// InferenceError reports a failed or crashed transcription call.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string { return fmt.Sprintf("inference failed: %v", e.Err) }
func (e *InferenceError) Unwrap() error { return e.Err }

// Manager holds at most one loaded engine at a time. All access goes
// through one lock, so a single inference call runs system-wide and the
// loaded model is amortized across repeated transcriptions of the same
// (variant, path) pair.
type Manager struct {
	factory     Factory
	idleTimeout time.Duration

	mu           sync.Mutex
	engine       Engine
	variant      Variant
	path         string
	lastActivity time.Time
}

// NewManager creates a manager using the given engine factory. A zero
// idleTimeout selects the default.
func NewManager(factory Factory, idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Manager{factory: factory, idleTimeout: idleTimeout}
}

// Transcribe runs inference with the requested engine, loading or swapping
// the model first if the slot holds a different (variant, path) pair. A
// panicking engine clears the slot instead of wedging the manager; the
// next call reloads.
func (m *Manager) Transcribe(v Variant, path string, samples []float32, p InferenceParams) (text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	eng, lerr := m.ensureLoadedLocked(v, path)
	if lerr != nil {
		return "", lerr
	}
	m.lastActivity = time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("inference panicked, discarding loaded model", "engine", v, "panic", r)
			m.clearLocked(false)
			text = ""
			err = &InferenceError{Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	text, terr := eng.Transcribe(samples, p)
	if terr != nil {
		return "", &InferenceError{Err: terr}
	}
	m.lastActivity = time.Now()
	return text, nil
}

func (m *Manager) ensureLoadedLocked(v Variant, path string) (Engine, error) {
	if m.engine != nil && m.variant == v && m.path == path {
		return m.engine, nil
	}
	m.clearLocked(true)

	log.Info("loading model", "engine", v, "path", path)
	start := time.Now()
	eng, err := m.factory(v, path)
	if err != nil {
		return nil, &ModelLoadError{Variant: v, Path: path, Err: err}
	}
	log.Info("model loaded", "engine", v, "took", time.Since(start))

	m.engine = eng
	m.variant = v
	m.path = path
	return eng, nil
}

func (m *Manager) clearLocked(unload bool) {
	if m.engine == nil {
		return
	}
	if unload {
		m.engine.Unload()
	}
	m.engine = nil
	m.path = ""
}

// Unload evicts the loaded engine immediately.
func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(true)
}

// UnloadIfIdle evicts the loaded engine when it has been unused longer
// than the idle timeout. Meant to run from a periodic ticker. Reports
// whether an eviction happened.
func (m *Manager) UnloadIfIdle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		return false
	}
	idle := time.Since(m.lastActivity)
	if idle < m.idleTimeout {
		return false
	}
	log.Info("evicting idle model", "engine", m.variant, "idle", idle)
	m.clearLocked(true)
	return true
}

// Loaded reports the currently loaded (variant, path) pair, if any.
func (m *Manager) Loaded() (Variant, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		return 0, "", false
	}
	return m.variant, m.path, true
}
