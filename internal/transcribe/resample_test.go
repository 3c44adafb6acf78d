package transcribe

import (
	"math"
	"testing"
)

func TestResampleLengthLaw(t *testing.T) {
	cases := []struct {
		n, src int
	}{
		{44100, 44100},
		{44100, 48000},
		{1001, 44100},
		{12345, 44100},
		{8000, 8000},
		{777, 22050},
		{0, 48000},
	}
	for _, c := range cases {
		out := Resample(make([]float32, c.n), c.src, CanonicalRate)
		want := int(math.Round(float64(c.n) * CanonicalRate / float64(c.src)))
		if len(out) != want {
			t.Errorf("n=%d src=%d: expected %d output samples, got %d",
				c.n, c.src, want, len(out))
		}
	}
}

func TestResampleIdentity(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3, -0.4}
	out := Resample(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestResamplePreservesDC(t *testing.T) {
	in := make([]float32, 4800)
	for i := range in {
		in[i] = 0.5
	}
	out := Resample(in, 48000, CanonicalRate)

	// Edges taper from zero padding; judge the interior.
	for i := len(out) / 4; i < 3*len(out)/4; i++ {
		if math.Abs(float64(out[i])-0.5) > 0.01 {
			t.Fatalf("sample %d: expected ~0.5, got %v", i, out[i])
		}
	}
}

func TestResamplePreservesTone(t *testing.T) {
	const freq = 440.0
	in := make([]float32, 44100)
	for i := range in {
		in[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/44100))
	}
	out := Resample(in, 44100, CanonicalRate)

	var sum float64
	lo, hi := len(out)/4, 3*len(out)/4
	for i := lo; i < hi; i++ {
		sum += float64(out[i]) * float64(out[i])
	}
	rms := math.Sqrt(sum / float64(hi-lo))
	want := 0.5 / math.Sqrt2
	if math.Abs(rms-want) > 0.02 {
		t.Errorf("expected tone RMS ~%.3f after resampling, got %.3f", want, rms)
	}
}
