package transcribe

import "math"

// sincHalfWidth is the filter half-width in output-side samples. Wider
// filters reject more aliasing at the cost of per-sample work; 16 taps a
// side is plenty for speech.
const sincHalfWidth = 16

// Resample converts in from srcRate to dstRate using windowed-sinc
// interpolation against the zero-padded input. The output length is
// exactly round(len(in) * dstRate / srcRate).
func Resample(in []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}

	outLen := int(math.Round(float64(len(in)) * float64(dstRate) / float64(srcRate)))
	out := make([]float32, outLen)
	if len(in) == 0 {
		return out
	}

	step := float64(srcRate) / float64(dstRate)
	cutoff := 1.0
	width := float64(sincHalfWidth)
	if step > 1 {
		// Downsampling: lower the cutoff below the destination Nyquist
		// and widen the filter to keep the same number of zero crossings.
		cutoff = 1 / step
		width = sincHalfWidth * step
	}

	for i := range out {
		center := float64(i) * step
		lo := int(math.Ceil(center - width))
		hi := int(math.Floor(center + width))

		var acc, norm float64
		for j := lo; j <= hi; j++ {
			x := float64(j) - center
			k := cutoff * sinc(cutoff*x) * blackmanHarris(x/width)
			norm += k
			if j >= 0 && j < len(in) {
				acc += float64(in[j]) * k
			}
		}
		if norm != 0 {
			acc /= norm
		}
		out[i] = float32(acc)
	}
	return out
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// blackmanHarris evaluates the 4-term Blackman-Harris window at t in
// [-1, 1].
func blackmanHarris(t float64) float64 {
	if t < -1 || t > 1 {
		return 0
	}
	u := (t + 1) / 2
	return 0.35875 -
		0.48829*math.Cos(2*math.Pi*u) +
		0.14128*math.Cos(4*math.Pi*u) -
		0.01168*math.Cos(6*math.Pi*u)
}
