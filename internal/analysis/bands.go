package analysis

import (
	"math"

	"github.com/vytor/neuroprofile/internal/models"
)

// ExtractBandPowers averages the PSD over each band of the table (bounds
// inclusive) and derives the ratio indices. psd must be aligned with freqs.
func ExtractBandPowers(freqs, psd []float64, bands models.BandTable) (models.BandPowerMetrics, error) {
	var m models.BandPowerMetrics

	if len(freqs) == 0 {
		return m, invalidf("empty spectrum")
	}
	if len(freqs) != len(psd) {
		return m, invalidf("frequency/power length mismatch: %d bins vs %d values", len(freqs), len(psd))
	}
	for i := range psd {
		if !finite(freqs[i]) {
			return m, invalidf("frequency bin %d is not finite", i)
		}
		if !finite(psd[i]) || psd[i] < 0 {
			return m, invalidf("power at bin %d (%.2f Hz) is %v", i, freqs[i], psd[i])
		}
	}

	for _, b := range models.Bands {
		r, ok := bands.Range(b)
		if !ok {
			return m, invalidf("band %s missing from table", b)
		}
		p, err := bandMean(freqs, psd, r)
		if err != nil {
			return m, err
		}
		setBand(&m, b, p)
	}

	m.TotalPower = mean(psd)
	deriveIndices(&m)
	return m, nil
}

func bandMean(freqs, psd []float64, r models.BandRange) (float64, error) {
	var sum float64
	var n int
	for i, f := range freqs {
		if f >= r.Min && f <= r.Max {
			sum += psd[i]
			n++
		}
	}
	if n == 0 {
		return 0, invalidf("no frequency bins in %s band [%g, %g] Hz", r.Band, r.Min, r.Max)
	}
	return sum / float64(n), nil
}

func setBand(m *models.BandPowerMetrics, b models.Band, p float64) {
	switch b {
	case models.BandDelta:
		m.Delta = p
	case models.BandTheta:
		m.Theta = p
	case models.BandAlpha:
		m.Alpha = p
	case models.BandBeta:
		m.Beta = p
	case models.BandGamma:
		m.Gamma = p
	}
}

func deriveIndices(m *models.BandPowerMetrics) {
	set := func(dst *float64, idx models.Index, num, den float64) {
		v, ok := ratio(num, den)
		if !ok {
			m.Undefined = m.Undefined.With(idx)
			return
		}
		*dst = v
	}
	set(&m.FocusIndex, models.IndexFocus, m.Beta, m.Alpha)
	set(&m.MindWanderingIndex, models.IndexMindWandering, m.Theta, m.Beta)
	set(&m.ArousalIndex, models.IndexArousal, m.Beta, m.Theta)
	set(&m.DrowsinessIndex, models.IndexDrowsiness, m.Theta, m.Alpha)
}

func ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	v := num / den
	if !finite(v) {
		return 0, false
	}
	return v, true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
