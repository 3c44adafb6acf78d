package record

import "math"

const (
	// NumBars is the number of loudness values emitted per level update.
	NumBars = 9

	levelWindowSize = 512
	levelGain       = 8.0
)

// computeLevels partitions the window into NumBars equal chunks and returns
// the gained, clamped RMS of each.
func computeLevels(window []float32) [NumBars]float32 {
	var bars [NumBars]float32
	chunk := len(window) / NumBars
	if chunk == 0 {
		return bars
	}
	for i := 0; i < NumBars; i++ {
		seg := window[i*chunk : (i+1)*chunk]
		var sum float64
		for _, v := range seg {
			sum += float64(v) * float64(v)
		}
		rms := math.Sqrt(sum / float64(len(seg)))
		level := rms * levelGain
		if level > 1.0 {
			level = 1.0
		}
		bars[i] = float32(level)
	}
	return bars
}
