package record

import "testing"

func TestComputeLevelsSilence(t *testing.T) {
	window := make([]float32, levelWindowSize)
	for i, bar := range computeLevels(window) {
		if bar != 0 {
			t.Errorf("bar %d: expected 0 for silence, got %v", i, bar)
		}
	}
}

func TestComputeLevelsFullScaleClamps(t *testing.T) {
	window := make([]float32, levelWindowSize)
	for i := range window {
		window[i] = 1.0
	}
	for i, bar := range computeLevels(window) {
		if bar != 1.0 {
			t.Errorf("bar %d: expected clamp at 1.0, got %v", i, bar)
		}
	}
}

func TestComputeLevelsGain(t *testing.T) {
	// Constant amplitude 0.05 has RMS 0.05; gained by 8 that is 0.4.
	window := make([]float32, levelWindowSize)
	for i := range window {
		window[i] = 0.05
	}
	for i, bar := range computeLevels(window) {
		if bar < 0.399 || bar > 0.401 {
			t.Errorf("bar %d: expected ~0.4, got %v", i, bar)
		}
	}
}

func TestComputeLevelsPerChunk(t *testing.T) {
	// Only the first ninth of the window carries signal.
	window := make([]float32, levelWindowSize)
	chunk := levelWindowSize / NumBars
	for i := 0; i < chunk; i++ {
		window[i] = 1.0
	}
	bars := computeLevels(window)
	if bars[0] != 1.0 {
		t.Errorf("expected first bar clamped at 1.0, got %v", bars[0])
	}
	for i := 1; i < NumBars; i++ {
		if bars[i] != 0 {
			t.Errorf("bar %d: expected 0, got %v", i, bars[i])
		}
	}
}
