package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Config holds configurable parameters.
type Config struct {
	Device         string `json:"DEVICE"`
	PreferredRate  int    `json:"PREFERRED_RATE"`
	OutputDir      string `json:"OUTPUT_DIR"`
	KeepRecordings bool   `json:"KEEP_RECORDINGS"`

	Engine         string `json:"ENGINE"`
	Model          string `json:"MODEL"`
	ModelPath      string `json:"MODEL_PATH"`
	ModelsDir      string `json:"MODELS_DIR"`
	Language       string `json:"LANGUAGE"`
	Threads        int    `json:"THREADS"`
	IdleTimeoutMin int    `json:"IDLE_TIMEOUT_MIN"`

	HotKeyHook bool   `json:"HOTKEY_HOOK"`
	StartKey   string `json:"START_KEY"`
	CancelKey  string `json:"CANCEL_KEY"`

	Notification bool `json:"NOTIFICATION"`
	Debug        bool `json:"DEBUG"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Device:         "default",
		PreferredRate:  16000,
		OutputDir:      "",
		KeepRecordings: false,
		Engine:         "whisper",
		Model:          "base",
		ModelPath:      "",
		ModelsDir:      "models",
		Language:       "",
		Threads:        0,
		IdleTimeoutMin: 5,
		HotKeyHook:     false,
		StartKey:       "alt+q",
		CancelKey:      "esc",
		Notification:   false,
		Debug:          false,
	}
}

// Load loads config from a JSON file if provided.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveDefault writes a default config JSON to the provided path.
func SaveDefault(path string) error {
	cfg := DefaultConfig()
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate verifies config fields and returns an error if any value is invalid.
func Validate(cfg *Config) error {
	if cfg.Device == "" {
		return fmt.Errorf("invalid DEVICE: must be a device name or \"default\"")
	}
	if cfg.PreferredRate <= 0 {
		return fmt.Errorf("invalid PREFERRED_RATE: %d (must be > 0)", cfg.PreferredRate)
	}
	switch cfg.Engine {
	case "whisper", "vosk":
	default:
		return fmt.Errorf("invalid ENGINE: %s (allowed: whisper, vosk)", cfg.Engine)
	}
	if cfg.Engine == "vosk" && cfg.ModelPath == "" {
		return fmt.Errorf("ENGINE vosk requires MODEL_PATH (vosk models are not auto-downloaded)")
	}
	if cfg.Model == "" && cfg.ModelPath == "" {
		return fmt.Errorf("one of MODEL or MODEL_PATH must be set")
	}
	if cfg.Threads < 0 {
		return fmt.Errorf("invalid THREADS: %d (must be >= 0, 0 = auto)", cfg.Threads)
	}
	if cfg.IdleTimeoutMin < 0 {
		return fmt.Errorf("invalid IDLE_TIMEOUT_MIN: %d (must be >= 0)", cfg.IdleTimeoutMin)
	}
	return nil
}

// RecordingsDir returns the directory recordings are written to, creating
// nothing. An empty OUTPUT_DIR falls back to "recordings" under the cwd.
func RecordingsDir(cfg *Config) string {
	if cfg.OutputDir != "" {
		abs, err := filepath.Abs(cfg.OutputDir)
		if err == nil {
			return abs
		}
		log.Warn("output-dir path invalid, falling back to cwd", "path", cfg.OutputDir, "err", err)
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "recordings")
}
