package analysis

import (
	"slices"

	"github.com/vytor/neuroprofile/internal/models"
)

// Baseline is the session reference every epoch is scored against.
type Baseline struct {
	Metrics  models.BandPowerMetrics
	Freqs    []float64
	Spectrum []float64
	// CleanEpochs is the number of epochs averaged into Spectrum when
	// QualityWarning is false.
	CleanEpochs    int
	QualityWarning bool
}

// EstimateBaseline averages the spectra of every epoch not flagged in noisy and
// extracts band powers once from that mean. When every epoch is noisy it falls
// back to the full set and raises QualityWarning.
func EstimateBaseline(epochs []models.Epoch, noisy map[int]bool, bands models.BandTable) (Baseline, error) {
	if len(epochs) == 0 {
		return Baseline{}, invalidf("no epochs to build a baseline from")
	}

	clean := make([]models.Epoch, 0, len(epochs))
	for _, e := range epochs {
		if !noisy[e.Index] {
			clean = append(clean, e)
		}
	}

	b := Baseline{CleanEpochs: len(clean)}
	source := clean
	if len(clean) == 0 {
		b.QualityWarning = true
		source = epochs
	}

	freqs, spectrum, err := AverageSpectra(source)
	if err != nil {
		return Baseline{}, err
	}
	b.Freqs = freqs
	b.Spectrum = spectrum

	b.Metrics, err = ExtractBandPowers(freqs, spectrum, bands)
	if err != nil {
		return Baseline{}, err
	}
	return b, nil
}

// AverageSpectra returns the element-wise mean over every channel row of every
// epoch. All epochs must share one frequency grid.
func AverageSpectra(epochs []models.Epoch) ([]float64, []float64, error) {
	if len(epochs) == 0 {
		return nil, nil, invalidf("no spectra to average")
	}
	freqs := epochs[0].Freqs
	if len(freqs) == 0 {
		return nil, nil, invalidf("epoch %d has no frequency bins", epochs[0].Index)
	}

	sum := make([]float64, len(freqs))
	var rows int
	for _, e := range epochs {
		if !slices.Equal(e.Freqs, freqs) {
			return nil, nil, invalidf("epoch %d uses a different frequency grid", e.Index)
		}
		if err := checkPSD(e, len(freqs)); err != nil {
			return nil, nil, err
		}
		for _, row := range e.PSD {
			for i, p := range row {
				sum[i] += p
			}
			rows++
		}
	}
	for i := range sum {
		sum[i] /= float64(rows)
	}
	return freqs, sum, nil
}

// MeanSpectrum averages the per-channel spectra of one epoch.
func MeanSpectrum(e models.Epoch) ([]float64, error) {
	if err := checkPSD(e, len(e.Freqs)); err != nil {
		return nil, err
	}
	out := make([]float64, len(e.Freqs))
	for _, row := range e.PSD {
		for i, p := range row {
			out[i] += p
		}
	}
	for i := range out {
		out[i] /= float64(len(e.PSD))
	}
	return out, nil
}

func checkPSD(e models.Epoch, bins int) error {
	if len(e.PSD) == 0 {
		return invalidf("epoch %d has no spectrum", e.Index)
	}
	for ch, row := range e.PSD {
		if len(row) != bins {
			return invalidf("epoch %d spectrum row %d has %d values for %d frequency bins", e.Index, ch, len(row), bins)
		}
	}
	return nil
}
