package record

import (
	"errors"
	"testing"
)

func TestNegotiatePrefersMonoAtTarget(t *testing.T) {
	configs := []SupportedConfig{
		{Channels: 2, Format: FormatF32, MinRate: 8000, MaxRate: 48000},
		{Channels: 1, Format: FormatI16, MinRate: 8000, MaxRate: 48000},
	}
	cfg, err := Negotiate("mic", configs, 16000)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if cfg.Channels != 1 || cfg.SampleRate != 16000 || cfg.Format != FormatI16 {
		t.Errorf("expected mono i16 at 16000, got %+v", cfg)
	}
}

func TestNegotiateFallsBackToStereo(t *testing.T) {
	configs := []SupportedConfig{
		{Channels: 2, Format: FormatF32, MinRate: 8000, MaxRate: 48000},
		{Channels: 1, Format: FormatI16, MinRate: 44100, MaxRate: 48000},
	}
	cfg, err := Negotiate("mic", configs, 16000)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if cfg.Channels != 2 || cfg.SampleRate != 16000 {
		t.Errorf("expected stereo at 16000, got %+v", cfg)
	}
}

func TestNegotiateClosestMonoEndpoint(t *testing.T) {
	configs := []SupportedConfig{
		{Channels: 2, Format: FormatF32, MinRate: 96000, MaxRate: 192000},
		{Channels: 1, Format: FormatI16, MinRate: 44100, MaxRate: 48000},
		{Channels: 1, Format: FormatF32, MinRate: 22050, MaxRate: 32000},
	}
	cfg, err := Negotiate("mic", configs, 16000)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if cfg.Channels != 1 || cfg.SampleRate != 22050 || cfg.Format != FormatF32 {
		t.Errorf("expected mono f32 at 22050, got %+v", cfg)
	}
}

func TestNegotiateClampsToMinimum(t *testing.T) {
	configs := []SupportedConfig{
		{Channels: 2, Format: FormatF32, MinRate: 44100, MaxRate: 48000},
	}
	cfg, err := Negotiate("mic", configs, 16000)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if cfg.Channels != 2 || cfg.SampleRate != 44100 {
		t.Errorf("expected stereo clamped to 44100, got %+v", cfg)
	}
}

func TestNegotiateDefaultsTargetRate(t *testing.T) {
	configs := []SupportedConfig{
		{Channels: 1, Format: FormatI16, MinRate: 8000, MaxRate: 48000},
	}
	cfg, err := Negotiate("mic", configs, 0)
	if err != nil {
		t.Fatalf("Negotiate failed: %v", err)
	}
	if cfg.SampleRate != DefaultTargetRate {
		t.Errorf("expected default rate %d, got %d", DefaultTargetRate, cfg.SampleRate)
	}
}

func TestNegotiateErrors(t *testing.T) {
	var nsc *NoSupportedConfigError
	if _, err := Negotiate("mic", nil, 16000); !errors.As(err, &nsc) {
		t.Errorf("expected NoSupportedConfigError, got %v", err)
	}

	var ncf *NoCompatibleFormatError
	odd := []SupportedConfig{
		{Channels: 1, Format: FormatOther, MinRate: 8000, MaxRate: 48000},
	}
	if _, err := Negotiate("mic", odd, 16000); !errors.As(err, &ncf) {
		t.Errorf("expected NoCompatibleFormatError, got %v", err)
	}
}

func TestResolveDevice(t *testing.T) {
	host := newMockHost(monoMockDevice("Mock Mic"), monoMockDevice("Other Mic"))

	dev, err := ResolveDevice(host, "default")
	if err != nil {
		t.Fatalf("resolving default failed: %v", err)
	}
	if dev.Name() != "Mock Mic" {
		t.Errorf("expected default to be Mock Mic, got %q", dev.Name())
	}

	dev, err = ResolveDevice(host, "Other Mic")
	if err != nil {
		t.Fatalf("resolving by name failed: %v", err)
	}
	if dev.Name() != "Other Mic" {
		t.Errorf("expected Other Mic, got %q", dev.Name())
	}

	var nf *DeviceNotFoundError
	if _, err := ResolveDevice(host, "Ghost Mic"); !errors.As(err, &nf) {
		t.Errorf("expected DeviceNotFoundError, got %v", err)
	}
}
