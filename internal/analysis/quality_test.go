package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/models"
)

func TestQualityThresholds_Bad(t *testing.T) {
	q := analysis.DefaultQualityThresholds()

	tests := []struct {
		name  string
		stats analysis.ChannelStats
		bad   bool
	}{
		{"typical", analysis.ChannelStats{PeakToPeak: 80e-6, StdDev: 15e-6}, false},
		{"blink", analysis.ChannelStats{PeakToPeak: 301e-6, StdDev: 15e-6}, true},
		{"ptp at limit", analysis.ChannelStats{PeakToPeak: 300e-6, StdDev: 15e-6}, false},
		{"flatline", analysis.ChannelStats{PeakToPeak: 1e-7, StdDev: 0.05e-6}, true},
		{"emg", analysis.ChannelStats{PeakToPeak: 250e-6, StdDev: 101e-6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bad, q.Bad(tt.stats))
		})
	}
}

func TestAssessEpoch_ChannelFraction(t *testing.T) {
	channels := []string{"AF3", "AF4", "F3", "F4", "F7", "F8", "T7", "T8", "O1", "O2"}

	tests := []struct {
		name  string
		bad   int
		noisy bool
	}{
		{"clean", 0, false},
		{"one bad channel kept", 1, false},
		{"at threshold kept", 3, false},
		{"above threshold rejected", 4, true},
		{"all bad", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := cleanSamples(len(channels))
			for i := 0; i < tt.bad; i++ {
				samples[i] = make([]float64, 250) // flatline
			}

			d, err := analysis.AssessEpoch(models.Epoch{Index: 7, Samples: samples}, channels, analysis.DefaultQualityThresholds())
			require.NoError(t, err)

			assert.Equal(t, 7, d.Index)
			assert.Equal(t, len(channels), d.TotalChannels)
			assert.Equal(t, tt.bad, d.BadCount())
			assert.Equal(t, channels[:tt.bad], d.BadChannels)
			assert.Equal(t, tt.noisy, d.Noisy)
		})
	}
}

func TestAssessEpoch_AmplitudeRules(t *testing.T) {
	q := analysis.DefaultQualityThresholds()

	d, err := analysis.AssessEpoch(models.Epoch{Samples: noisySamples(2)}, []string{"Fp1", "Fp2"}, q)
	require.NoError(t, err)
	assert.True(t, d.Noisy)
	assert.Equal(t, []string{"Fp1", "Fp2"}, d.BadChannels)

	d, err = analysis.AssessEpoch(models.Epoch{Samples: cleanSamples(2)}, nil, q)
	require.NoError(t, err)
	assert.False(t, d.Noisy)
	assert.Empty(t, d.BadChannels)
}

func TestAssessEpoch_UnnamedChannels(t *testing.T) {
	samples := cleanSamples(4)
	samples[3] = sine(500e-6, 250)

	d, err := analysis.AssessEpoch(models.Epoch{Samples: samples}, []string{"Cz"}, analysis.DefaultQualityThresholds())
	require.NoError(t, err)
	assert.Equal(t, []string{"ch3"}, d.BadChannels)
	assert.False(t, d.Noisy, "1 of 4 channels is within the 0.3 fraction")

	samples = cleanSamples(3)
	samples[2] = sine(500e-6, 250)
	d, err = analysis.AssessEpoch(models.Epoch{Samples: samples}, nil, analysis.DefaultQualityThresholds())
	require.NoError(t, err)
	assert.True(t, d.Noisy, "1 of 3 channels exceeds 0.9")
}

func TestAssessEpoch_InvalidShapes(t *testing.T) {
	q := analysis.DefaultQualityThresholds()

	tests := []struct {
		name    string
		samples [][]float64
	}{
		{"no channels", nil},
		{"empty channel", [][]float64{{}}},
		{"ragged", [][]float64{{1e-6, 2e-6}, {1e-6}}},
		{"nan sample", [][]float64{{1e-6, nan()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analysis.AssessEpoch(models.Epoch{Samples: tt.samples}, nil, q)
			assert.ErrorIs(t, err, analysis.ErrInvalidInput)
		})
	}
}
