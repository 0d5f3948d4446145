package analysis_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/models"
)

// sessionRecording has ten flat epochs, one with doubled beta power at index 4
// and one amplitude artifact at index 7, listed out of order.
func sessionRecording() models.Recording {
	flat := spectrum(1e-12, 1e-12, 1e-12, 1e-12, 1e-12)
	var epochs []models.Epoch
	for i := 11; i >= 0; i-- {
		switch i {
		case 4:
			epochs = append(epochs, epochWith(i, cleanSamples(2), spectrum(1e-12, 1e-12, 1e-12, 2e-12, 1e-12)))
		case 7:
			epochs = append(epochs, epochWith(i, noisySamples(2), spectrum(1e-6, 1e-6, 1e-6, 1e-6, 1e-6)))
		default:
			epochs = append(epochs, epochWith(i, cleanSamples(2), flat))
		}
	}
	for i := range epochs {
		epochs[i].Freqs = nil
	}
	return models.Recording{
		Name:     "fixture",
		Channels: []string{"AF3", "AF4"},
		Freqs:    bandFreqs,
		Epochs:   epochs,
	}
}

func newProcessor(t *testing.T) *analysis.Processor {
	t.Helper()
	p, err := analysis.NewProcessor(analysis.DefaultPipelineConfig())
	require.NoError(t, err)
	return p
}

func TestProcessor_Run(t *testing.T) {
	res, err := newProcessor(t).Run(context.Background(), sessionRecording())
	require.NoError(t, err)

	want := make([]models.Label, 12)
	for i := range want {
		want[i] = models.LabelNeutral
	}
	want[4] = models.LabelHighArousal
	want[7] = models.LabelArtifact
	assert.Equal(t, want, res.Summary.Timeline)

	assert.Equal(t, map[models.Label]float64{
		models.LabelNeutral:     83.3,
		models.LabelHighArousal: 8.3,
		models.LabelArtifact:    8.3,
	}, res.Summary.SessionProfile)
	assert.Equal(t, models.SummaryMetadata{Windows: 12, WindowSizeSec: 30}, res.Summary.Metadata)
	assert.Len(t, res.Summary.Scores, 12)

	assert.False(t, res.Baseline.QualityWarning)
	assert.Equal(t, 11, res.Baseline.CleanEpochs)
	assert.True(t, res.Diagnostics[7].Noisy)
	assert.Equal(t, []string{"AF3", "AF4"}, res.Diagnostics[7].BadChannels)
	assert.InDelta(t, 11.0/12*2, res.Summary.Scores[4].Arousal, 1e-9)
}

func TestProcessor_AllNoisy(t *testing.T) {
	rec := sessionRecording()
	for i := range rec.Epochs {
		rec.Epochs[i].Samples = noisySamples(2)
	}

	res, err := newProcessor(t).Run(context.Background(), rec)
	require.NoError(t, err)

	assert.True(t, res.Summary.Metadata.QualityWarning)
	assert.Equal(t, map[models.Label]float64{models.LabelArtifact: 100}, res.Summary.SessionProfile)

	_, mean, err := analysis.AverageSpectra(withFreqs(rec.Epochs))
	require.NoError(t, err)
	assert.InDeltaSlice(t, mean, res.Baseline.Spectrum, 1e-18)
}

func withFreqs(epochs []models.Epoch) []models.Epoch {
	out := make([]models.Epoch, len(epochs))
	for i, e := range epochs {
		e.Freqs = bandFreqs
		out[i] = e
	}
	return out
}

func TestProcessor_Deterministic(t *testing.T) {
	cfg := analysis.DefaultPipelineConfig()
	cfg.Workers = 8
	p, err := analysis.NewProcessor(cfg)
	require.NoError(t, err)

	first, err := p.Run(context.Background(), sessionRecording())
	require.NoError(t, err)
	a, err := json.Marshal(first.Summary)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := p.Run(context.Background(), sessionRecording())
		require.NoError(t, err)
		b, err := json.Marshal(again.Summary)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestProcessor_SummaryJSONShape(t *testing.T) {
	res, err := newProcessor(t).Run(context.Background(), sessionRecording())
	require.NoError(t, err)

	raw, err := json.Marshal(res.Summary)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.ElementsMatch(t, []string{"session_profile", "timeline", "metadata", "scores"}, keys(doc))

	meta := doc["metadata"].(map[string]any)
	assert.ElementsMatch(t, []string{"windows", "window_size_sec", "quality_warning"}, keys(meta))

	score := doc["scores"].([]any)[0].(map[string]any)
	assert.ElementsMatch(t, []string{"drowsiness_score", "arousal_score", "focus_score", "mind_wandering_score"}, keys(score))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestProcessor_UndefinedEpochRatioBecomesArtifact(t *testing.T) {
	rec := sessionRecording()
	rec.Epochs[0].PSD = [][]float64{
		spectrum(1e-12, 1e-12, 0, 1e-12, 1e-12),
		spectrum(1e-12, 1e-12, 0, 1e-12, 1e-12),
	}

	res, err := newProcessor(t).Run(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, models.LabelArtifact, res.Summary.Timeline[11])
}

func TestProcessor_OverflowingScoreIsArtifact(t *testing.T) {
	rec := sessionRecording()
	for i := range rec.Epochs {
		rec.Epochs[i].PSD = [][]float64{
			spectrum(1e-12, 1e-12, 1e-12, 1e-20, 1e-12),
			spectrum(1e-12, 1e-12, 1e-12, 1e-20, 1e-12),
		}
	}
	// a focus index of 1e301 over a baseline of 1e-8 does not fit a float64
	rec.Epochs[0].Samples = noisySamples(2)
	rec.Epochs[0].PSD = [][]float64{
		spectrum(1e-12, 1e-12, 1e-301, 1, 1e-12),
		spectrum(1e-12, 1e-12, 1e-301, 1, 1e-12),
	}

	res, err := newProcessor(t).Run(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, models.LabelArtifact, res.Summary.Timeline[11])

	_, err = json.Marshal(res.Summary)
	require.NoError(t, err)
}

func TestProcessor_ZeroBaselineFails(t *testing.T) {
	rec := sessionRecording()
	for i := range rec.Epochs {
		rec.Epochs[i].PSD = [][]float64{spectrum(1, 0, 1, 1, 1), spectrum(1, 0, 1, 1, 1)}
	}

	_, err := newProcessor(t).Run(context.Background(), rec)
	assert.ErrorIs(t, err, analysis.ErrDataIntegrity)
}

func TestProcessor_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Recording)
	}{
		{"no epochs", func(r *models.Recording) { r.Epochs = nil }},
		{"duplicate index", func(r *models.Recording) { r.Epochs[1].Index = r.Epochs[0].Index }},
		{"channel count", func(r *models.Recording) { r.Epochs[3].Samples = cleanSamples(3) }},
		{"psd length", func(r *models.Recording) { r.Epochs[5].PSD[0] = []float64{1, 2} }},
		{"band override", func(r *models.Recording) {
			r.Options.Bands = map[models.Band][2]float64{models.BandGamma: {50, 60}}
		}},
		{"bad fraction", func(r *models.Recording) {
			f := 1.5
			r.Options.ChannelNoiseFraction = &f
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sessionRecording()
			tt.mutate(&rec)
			res, err := newProcessor(t).Run(context.Background(), rec)
			assert.ErrorIs(t, err, analysis.ErrInvalidInput)
			assert.Nil(t, res)
		})
	}
}

func TestProcessor_RunOptions(t *testing.T) {
	rec := sessionRecording()
	threshold := 5.0
	rec.Options.ClassificationThreshold = &threshold
	rec.WindowSeconds = 4

	res, err := newProcessor(t).Run(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, models.LabelNeutral, res.Summary.Timeline[4], "threshold raised above every ratio")
	assert.Equal(t, 4.0, res.Summary.Metadata.WindowSizeSec)
	assert.Equal(t, 5.0, res.Config.Threshold)
}

func TestProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newProcessor(t).Run(ctx, sessionRecording())
	assert.ErrorIs(t, err, context.Canceled)
}
