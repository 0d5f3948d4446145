package analysis_test

import (
	"math"

	"github.com/vytor/neuroprofile/internal/models"
)

// bandFreqs holds one bin per band so band powers equal the bin values.
var bandFreqs = []float64{2, 6, 10, 20, 40}

func spectrum(delta, theta, alpha, beta, gamma float64) []float64 {
	return []float64{delta, theta, alpha, beta, gamma}
}

func sine(amplitude float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*10*float64(i)/250)
	}
	return out
}

func cleanSamples(channels int) [][]float64 {
	rows := make([][]float64, channels)
	for i := range rows {
		rows[i] = sine(20e-6, 250)
	}
	return rows
}

func noisySamples(channels int) [][]float64 {
	rows := make([][]float64, channels)
	for i := range rows {
		rows[i] = sine(500e-6, 250)
	}
	return rows
}

func epochWith(index int, samples [][]float64, psd []float64) models.Epoch {
	rows := make([][]float64, len(samples))
	for i := range rows {
		rows[i] = append([]float64(nil), psd...)
	}
	return models.Epoch{
		Index:   index,
		Samples: samples,
		Freqs:   bandFreqs,
		PSD:     rows,
	}
}

func metricsWith(focus, mindWandering, arousal, drowsiness, total float64) models.BandPowerMetrics {
	return models.BandPowerMetrics{
		Delta:              1,
		Theta:              1,
		Alpha:              1,
		Beta:               1,
		Gamma:              1,
		FocusIndex:         focus,
		MindWanderingIndex: mindWandering,
		ArousalIndex:       arousal,
		DrowsinessIndex:    drowsiness,
		TotalPower:         total,
	}
}

func nan() float64 { return math.NaN() }
