package analysis

import (
	"fmt"
	"math"

	"github.com/vytor/neuroprofile/internal/models"
)

// ChannelStats summarises the amplitude of one channel over an epoch.
type ChannelStats struct {
	PeakToPeak float64
	StdDev     float64
}

func channelStats(samples []float64) ChannelStats {
	lo, hi := samples[0], samples[0]
	var sum float64
	for _, x := range samples {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
		sum += x
	}
	mu := sum / float64(len(samples))
	var ss float64
	for _, x := range samples {
		d := x - mu
		ss += d * d
	}
	return ChannelStats{
		PeakToPeak: hi - lo,
		StdDev:     math.Sqrt(ss / float64(len(samples))),
	}
}

// Bad reports whether a channel trips any amplitude limit.
func (t QualityThresholds) Bad(s ChannelStats) bool {
	return s.PeakToPeak > t.MaxPeakToPeak || s.StdDev < t.MinStdDev || s.StdDev > t.MaxStdDev
}

// Noisy reports whether bad channels exceed the tolerated fraction.
func (t QualityThresholds) Noisy(bad, total int) bool {
	return bad > t.MaxBadChannels(total)
}

// AssessEpoch runs the per-channel amplitude checks over the raw samples of an
// epoch. channels names the rows of epoch.Samples; missing names fall back to
// "ch<N>".
func AssessEpoch(epoch models.Epoch, channels []string, t QualityThresholds) (models.EpochDiagnostic, error) {
	d := models.EpochDiagnostic{
		Index:         epoch.Index,
		TotalChannels: len(epoch.Samples),
		BadChannels:   []string{},
	}
	if len(epoch.Samples) == 0 {
		return d, invalidf("epoch %d has no channels", epoch.Index)
	}

	width := len(epoch.Samples[0])
	for ch, row := range epoch.Samples {
		if len(row) == 0 {
			return d, invalidf("epoch %d channel %d has no samples", epoch.Index, ch)
		}
		if len(row) != width {
			return d, invalidf("epoch %d channel %d has %d samples, expected %d", epoch.Index, ch, len(row), width)
		}
		for _, x := range row {
			if !finite(x) {
				return d, invalidf("epoch %d channel %d contains a non-finite sample", epoch.Index, ch)
			}
		}
		if t.Bad(channelStats(row)) {
			d.BadChannels = append(d.BadChannels, channelName(channels, ch))
		}
	}

	d.Noisy = t.Noisy(d.BadCount(), d.TotalChannels)
	return d, nil
}

func channelName(channels []string, i int) string {
	if i < len(channels) && channels[i] != "" {
		return channels[i]
	}
	return fmt.Sprintf("ch%d", i)
}
