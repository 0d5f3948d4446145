package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/models"
)

func defaultClassifier() analysis.Classifier {
	return analysis.NewClassifier(analysis.DefaultPipelineConfig())
}

func TestClassify_Labels(t *testing.T) {
	baseline := metricsWith(1, 1, 1, 1, 1e-11)

	tests := []struct {
		name  string
		epoch models.BandPowerMetrics
		noisy bool
		want  models.Label
	}{
		{"arousal wins", metricsWith(1, 1, 2, 1, 1e-11), false, models.LabelHighArousal},
		{"drowsy wins", metricsWith(1.1, 1, 1, 1.6, 1e-11), false, models.LabelDrowsy},
		{"focus wins", metricsWith(1.5, 0.7, 1.3, 0.9, 1e-11), false, models.LabelHighFocus},
		{"mind wandering wins", metricsWith(0.8, 1.3, 0.7, 1.2, 1e-11), false, models.LabelLowFocus},
		{"winner below threshold", metricsWith(1.14, 1, 1.1, 1, 1e-11), false, models.LabelNeutral},
		{"winner at threshold", metricsWith(1.15, 1, 1, 1, 1e-11), false, models.LabelHighFocus},
		{"noisy overrides extreme ratios", metricsWith(9, 9, 9, 9, 1e-11), true, models.LabelArtifact},
		{"power above ceiling", metricsWith(1, 1, 2, 1, 2e-9), false, models.LabelArtifact},
		{"power at ceiling", metricsWith(1, 1, 2, 1, 1e-9), false, models.LabelHighArousal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := defaultClassifier().Classify(tt.epoch, baseline, tt.noisy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Label)
		})
	}
}

func TestClassify_TieGoesToFirstCandidate(t *testing.T) {
	baseline := metricsWith(1, 1, 1, 1, 1e-11)
	c := defaultClassifier()

	res, err := c.Classify(metricsWith(2, 2, 2, 2, 1e-11), baseline, false)
	require.NoError(t, err)
	assert.Equal(t, models.LabelDrowsy, res.Label)

	res, err = c.Classify(metricsWith(2, 2, 2, 1, 1e-11), baseline, false)
	require.NoError(t, err)
	assert.Equal(t, models.LabelHighArousal, res.Label)

	res, err = c.Classify(metricsWith(2, 2, 1, 1, 1e-11), baseline, false)
	require.NoError(t, err)
	assert.Equal(t, models.LabelHighFocus, res.Label)
}

func TestClassify_ScoresAlwaysReported(t *testing.T) {
	baseline := metricsWith(2, 0.5, 4, 1, 1e-11)
	epoch := metricsWith(3, 1, 2, 0.5, 1e-11)

	for _, noisy := range []bool{true, false} {
		res, err := defaultClassifier().Classify(epoch, baseline, noisy)
		require.NoError(t, err)
		assert.Equal(t, models.ScoreRecord{
			Drowsiness:    0.5,
			Arousal:       0.5,
			Focus:         1.5,
			MindWandering: 2,
		}, res.Scores)
	}
}

func TestClassify_UndefinedEpochRatio(t *testing.T) {
	baseline := metricsWith(1, 1, 1, 1, 1e-11)
	epoch := metricsWith(0, 1.5, 2, 0, 1e-11)
	epoch.Undefined = epoch.Undefined.With(models.IndexFocus).With(models.IndexDrowsiness)

	res, err := defaultClassifier().Classify(epoch, baseline, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrUndefinedRatio)

	var re *analysis.RatioError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, models.IndexDrowsiness, re.Index)
	assert.False(t, re.Baseline)

	assert.Equal(t, models.LabelArtifact, res.Label)
	assert.Equal(t, models.ScoreRecord{Arousal: 2, MindWandering: 1.5}, res.Scores)
}

func TestClassify_OverflowingScore(t *testing.T) {
	baseline := metricsWith(1e-8, 1, 1, 1, 1e-11)
	epoch := metricsWith(1e300, 1, 1, 1, 1e-11)

	res, err := defaultClassifier().Classify(epoch, baseline, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrUndefinedRatio)

	var re *analysis.RatioError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, models.IndexFocus, re.Index)

	assert.Equal(t, models.LabelArtifact, res.Label)
	assert.Equal(t, models.ScoreRecord{Drowsiness: 1, Arousal: 1, MindWandering: 1}, res.Scores)
	for _, v := range []float64{res.Scores.Drowsiness, res.Scores.Arousal, res.Scores.Focus, res.Scores.MindWandering} {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestClassify_BaselineIntegrity(t *testing.T) {
	epoch := metricsWith(1, 1, 1, 1, 1e-11)

	zero := metricsWith(1, 1, 0, 1, 1e-11)
	undefined := metricsWith(1, 1, 1, 1, 1e-11)
	undefined.Undefined = undefined.Undefined.With(models.IndexMindWandering)
	notFinite := metricsWith(1, 1, 1, 1, 1e-11)
	notFinite.Gamma = nan()

	for name, baseline := range map[string]models.BandPowerMetrics{
		"zero index":      zero,
		"undefined index": undefined,
		"not finite":      notFinite,
	} {
		t.Run(name, func(t *testing.T) {
			res, err := defaultClassifier().Classify(epoch, baseline, true)
			assert.ErrorIs(t, err, analysis.ErrDataIntegrity)
			assert.Empty(t, res.Label)
		})
	}
}

func TestClassify_NonFiniteEpoch(t *testing.T) {
	epoch := metricsWith(1, 1, 1, 1, nan())
	_, err := defaultClassifier().Classify(epoch, metricsWith(1, 1, 1, 1, 1e-11), false)
	assert.ErrorIs(t, err, analysis.ErrDataIntegrity)
}

func TestClassify_CustomThreshold(t *testing.T) {
	c := analysis.Classifier{Threshold: 1.5, PowerCeiling: analysis.DefaultPowerCeiling}
	res, err := c.Classify(metricsWith(1.4, 1, 1, 1, 1e-11), metricsWith(1, 1, 1, 1, 1e-11), false)
	require.NoError(t, err)
	assert.Equal(t, models.LabelNeutral, res.Label)
}
