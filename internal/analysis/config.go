package analysis

import (
	"fmt"
	"math"

	"github.com/vytor/neuroprofile/internal/models"
)

const (
	DefaultSamplingRate    = 250.0
	DefaultWindowSeconds   = 30.0
	DefaultChannelFraction = 0.3
	DefaultThreshold       = 1.15
	DefaultPowerCeiling    = 1e-9
)

// QualityThresholds are the per-channel limits, in volts, and the fraction of
// bad channels an epoch tolerates before it is rejected.
type QualityThresholds struct {
	MaxPeakToPeak   float64
	MinStdDev       float64
	MaxStdDev       float64
	ChannelFraction float64
}

func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MaxPeakToPeak:   300e-6,
		MinStdDev:       0.1e-6,
		MaxStdDev:       100e-6,
		ChannelFraction: DefaultChannelFraction,
	}
}

// MaxBadChannels is the largest bad-channel count an epoch of the given width
// may have and still be kept.
func (t QualityThresholds) MaxBadChannels(total int) int {
	return int(math.Floor(t.ChannelFraction * float64(total)))
}

type PipelineConfig struct {
	SamplingRate  float64
	WindowSeconds float64
	Bands         models.BandTable
	Quality       QualityThresholds
	Threshold     float64
	PowerCeiling  float64
	// Workers bounds per-epoch fan-out inside each pass; 0 means one per CPU.
	Workers int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		SamplingRate:  DefaultSamplingRate,
		WindowSeconds: DefaultWindowSeconds,
		Bands:         models.DefaultBands(),
		Quality:       DefaultQualityThresholds(),
		Threshold:     DefaultThreshold,
		PowerCeiling:  DefaultPowerCeiling,
	}
}

func (c PipelineConfig) Validate() error {
	if !(c.SamplingRate > 0) {
		return invalidf("sampling rate must be positive, got %v", c.SamplingRate)
	}
	if !(c.WindowSeconds > 0) {
		return invalidf("window length must be positive, got %v", c.WindowSeconds)
	}
	if err := validateBands(c.Bands); err != nil {
		return err
	}
	q := c.Quality
	if q.ChannelFraction < 0 || q.ChannelFraction > 1 || math.IsNaN(q.ChannelFraction) {
		return invalidf("channel noise fraction must be within [0, 1], got %v", q.ChannelFraction)
	}
	if !(q.MaxPeakToPeak > 0) || !(q.MaxStdDev > 0) || q.MinStdDev < 0 {
		return invalidf("amplitude thresholds must be positive")
	}
	if q.MinStdDev >= q.MaxStdDev {
		return invalidf("minimum std-dev %v must be below maximum %v", q.MinStdDev, q.MaxStdDev)
	}
	if !(c.Threshold > 0) {
		return invalidf("classification threshold must be positive, got %v", c.Threshold)
	}
	if !(c.PowerCeiling > 0) {
		return invalidf("artifact power ceiling must be positive, got %v", c.PowerCeiling)
	}
	if c.Workers < 0 {
		return invalidf("workers cannot be negative")
	}
	return nil
}

func validateBands(t models.BandTable) error {
	if len(t) != len(models.Bands) {
		return invalidf("band table needs %d bands, got %d", len(models.Bands), len(t))
	}
	for _, b := range models.Bands {
		r, ok := t.Range(b)
		if !ok {
			return invalidf("band %s missing from table", b)
		}
		if r.Min < 0 || !(r.Max > r.Min) {
			return invalidf("band %s has invalid range [%v, %v]", b, r.Min, r.Max)
		}
	}
	return nil
}

// WithOverrides applies per-run options on top of c. The band table is copied,
// so c is never modified.
func (c PipelineConfig) WithOverrides(o models.RunOptions) (PipelineConfig, error) {
	out := c
	out.Bands = append(models.BandTable(nil), c.Bands...)

	if o.ChannelNoiseFraction != nil {
		out.Quality.ChannelFraction = *o.ChannelNoiseFraction
	}
	if o.ClassificationThreshold != nil {
		out.Threshold = *o.ClassificationThreshold
	}
	if o.ArtifactPowerCeiling != nil {
		out.PowerCeiling = *o.ArtifactPowerCeiling
	}
	for band, bounds := range o.Bands {
		found := false
		for i := range out.Bands {
			if out.Bands[i].Band == band {
				out.Bands[i].Min, out.Bands[i].Max = bounds[0], bounds[1]
				found = true
			}
		}
		if !found {
			return c, fmt.Errorf("%w: unknown band %q", ErrInvalidInput, band)
		}
	}

	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}
