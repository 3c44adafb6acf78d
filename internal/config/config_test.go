package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty device", func(c *Config) { c.Device = "" }},
		{"zero rate", func(c *Config) { c.PreferredRate = 0 }},
		{"unknown engine", func(c *Config) { c.Engine = "sphinx" }},
		{"vosk without model path", func(c *Config) { c.Engine = "vosk" }},
		{"no model at all", func(c *Config) { c.Model, c.ModelPath = "", "" }},
		{"negative threads", func(c *Config) { c.Threads = -1 }},
		{"negative idle timeout", func(c *Config) { c.IdleTimeoutMin = -1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := Validate(&cfg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("SaveDefault failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("loaded config differs from default:\n%+v\n%+v", cfg, DefaultConfig())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"ENGINE": "vosk", "MODEL_PATH": "/models/vosk-small", "IDLE_TIMEOUT_MIN": 10}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine != "vosk" || cfg.ModelPath != "/models/vosk-small" || cfg.IdleTimeoutMin != 10 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.StartKey != "alt+q" {
		t.Errorf("untouched fields should keep defaults, got StartKey=%q", cfg.StartKey)
	}
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := BindFlags(fs)
	if err := fs.Parse([]string{"-engine", "vosk", "-model-path", "/m", "-debug", "true"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	if !fv.AnySet() {
		t.Error("expected AnySet after explicit flags")
	}

	cfg := DefaultConfig()
	ApplyFlags(&cfg, fv)
	if cfg.Engine != "vosk" || cfg.ModelPath != "/m" || !cfg.Debug {
		t.Errorf("flag overrides not applied: %+v", cfg)
	}
	if cfg.Model != "base" || cfg.Device != "default" {
		t.Errorf("unset flags must not touch config: %+v", cfg)
	}
}

func TestBoolFlagSpellings(t *testing.T) {
	for _, v := range []string{"1", "true", "yes", "Y"} {
		var target, set bool
		f := &boolFlag{&target, &set}
		if err := f.Set(v); err != nil || !target || !set {
			t.Errorf("Set(%q): err=%v target=%v set=%v", v, err, target, set)
		}
	}
	var target, set bool
	f := &boolFlag{&target, &set}
	if err := f.Set("maybe"); err == nil {
		t.Error("expected error for invalid boolean")
	}
}
