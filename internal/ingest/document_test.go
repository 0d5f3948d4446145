package ingest_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/ingest"
	"github.com/vytor/neuroprofile/internal/models"
	"github.com/vytor/neuroprofile/internal/testutil"
)

func TestDecode_Fixture(t *testing.T) {
	rec, err := ingest.Decode(bytes.NewReader(testutil.DocumentJSON(t, testutil.Document())))
	require.NoError(t, err)

	assert.Equal(t, "fixture", rec.Name)
	assert.Equal(t, 250.0, rec.SamplingRate)
	assert.Equal(t, []string{"AF3", "AF4"}, rec.Channels)
	assert.Equal(t, testutil.FixtureFreqs, rec.Freqs)
	assert.Len(t, rec.Epochs, 8)
	assert.True(t, rec.Rescaled, "microvolt input converted to volts")

	var peak float64
	for _, x := range rec.Epochs[7].Samples[0] {
		peak = max(peak, x)
	}
	assert.InDelta(t, 500e-6, peak, 5e-6)
}

func TestDecode_VoltsUntouched(t *testing.T) {
	doc := testutil.Document()
	for i := range doc.Epochs {
		for ch := range doc.Epochs[i].Samples {
			for j := range doc.Epochs[i].Samples[ch] {
				doc.Epochs[i].Samples[ch][j] *= 1e-6
			}
		}
	}

	rec, err := ingest.Decode(bytes.NewReader(testutil.DocumentJSON(t, doc)))
	require.NoError(t, err)
	assert.False(t, rec.Rescaled)
	assert.Equal(t, doc.Epochs[3].Samples, rec.Epochs[3].Samples)
}

func TestDecode_Options(t *testing.T) {
	body := `{"name":"opts","channels":["Cz"],"freqs":[2,6,10,20,40],
"epochs":[{"index":0,"samples":[[1e-5,-1e-5]],"psd":[[1,1,1,1,1]]}],
"options":{"classification_threshold":1.3,"bands":{"Alpha":[7.5,12.5]}}}`

	rec, err := ingest.Decode(strings.NewReader(body))
	require.NoError(t, err)
	require.NotNil(t, rec.Options.ClassificationThreshold)
	assert.Equal(t, 1.3, *rec.Options.ClassificationThreshold)
	assert.Nil(t, rec.Options.ChannelNoiseFraction)
	assert.Equal(t, [2]float64{7.5, 12.5}, rec.Options.Bands[models.BandAlpha])
	assert.Zero(t, rec.SamplingRate, "left for pipeline defaults")
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ingest.Document)
	}{
		{"no epochs", func(d *ingest.Document) { d.Epochs = nil }},
		{"no channels", func(d *ingest.Document) { d.Channels = nil }},
		{"duplicate channel", func(d *ingest.Document) { d.Channels = []string{"AF3", "AF3"} }},
		{"empty channel name", func(d *ingest.Document) { d.Channels = []string{"AF3", ""} }},
		{"no freqs", func(d *ingest.Document) { d.Freqs = nil }},
		{"duplicate index", func(d *ingest.Document) { d.Epochs[2].Index = 0 }},
		{"missing sample row", func(d *ingest.Document) { d.Epochs[0].Samples = d.Epochs[0].Samples[:1] }},
		{"ragged samples", func(d *ingest.Document) { d.Epochs[0].Samples[1] = d.Epochs[0].Samples[1][:10] }},
		{"empty samples", func(d *ingest.Document) { d.Epochs[0].Samples = [][]float64{{}, {}} }},
		{"no psd", func(d *ingest.Document) { d.Epochs[4].PSD = nil }},
		{"psd length", func(d *ingest.Document) { d.Epochs[4].PSD[1] = []float64{1} }},
		{"negative rate", func(d *ingest.Document) { d.SamplingRate = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testutil.Document()
			tt.mutate(&doc)
			_, err := doc.Recording()
			assert.ErrorIs(t, err, analysis.ErrInvalidInput)
		})
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := ingest.Decode(strings.NewReader(`{"epochs": [`))
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, testutil.DocumentJSON(t, testutil.Document()), 0o600))

	rec, err := ingest.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rec.Epochs, 8)

	_, err = ingest.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_ThenProcess(t *testing.T) {
	rec := testutil.Recording(t)
	p, err := analysis.NewProcessor(analysis.DefaultPipelineConfig())
	require.NoError(t, err)

	res, err := p.Run(t.Context(), rec)
	require.NoError(t, err)
	assert.Equal(t, testutil.FixtureLabels(), res.Summary.Timeline)
	assert.Equal(t, map[models.Label]float64{
		models.LabelNeutral:     75,
		models.LabelHighArousal: 12.5,
		models.LabelArtifact:    12.5,
	}, res.Summary.SessionProfile)
}
