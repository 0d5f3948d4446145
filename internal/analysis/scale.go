package analysis

import (
	"math"

	"github.com/vytor/neuroprofile/internal/models"
)

const (
	// MicrovoltCutoff is the largest absolute amplitude still read as volts.
	MicrovoltCutoff = 0.1
	microvolt       = 1e-6
)

// NormalizeEpochs converts a recording from microvolts to volts when its
// largest absolute sample exceeds MicrovoltCutoff. The rule is applied to the
// whole recording at once so every epoch ends up in the same unit. The input
// is never modified.
func NormalizeEpochs(epochs []models.Epoch) ([]models.Epoch, bool) {
	var peak float64
	for _, e := range epochs {
		peak = math.Max(peak, maxAbs(e.Samples))
	}
	if peak <= MicrovoltCutoff {
		return epochs, false
	}
	out := make([]models.Epoch, len(epochs))
	for i, e := range epochs {
		e.Samples = rescale(e.Samples)
		out[i] = e
	}
	return out, true
}

func maxAbs(samples [][]float64) float64 {
	var m float64
	for _, row := range samples {
		for _, x := range row {
			m = math.Max(m, math.Abs(x))
		}
	}
	return m
}

func rescale(samples [][]float64) [][]float64 {
	out := make([][]float64, len(samples))
	for i, row := range samples {
		r := make([]float64, len(row))
		for j, x := range row {
			r[j] = x * microvolt
		}
		out[i] = r
	}
	return out
}
