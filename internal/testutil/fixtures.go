package testutil

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vytor/neuroprofile/internal/ingest"
	"github.com/vytor/neuroprofile/internal/models"
)

// FixtureFreqs has one bin per band, so band powers equal bin values.
var FixtureFreqs = []float64{2, 6, 10, 20, 40}

// Document returns an eight-epoch, two-channel session in microvolts. Epoch 1
// has doubled beta power and epoch 7 is an amplitude artifact; with default
// settings it classifies as six Baseline/Neutral, one High Arousal and one
// Artifact.
func Document() ingest.Document {
	flat := []float64{1e-12, 1e-12, 1e-12, 1e-12, 1e-12}
	beta := []float64{1e-12, 1e-12, 1e-12, 2e-12, 1e-12}

	epochs := make([]models.Epoch, 8)
	for i := range epochs {
		amplitude, psd := 20.0, flat
		switch i {
		case 1:
			psd = beta
		case 7:
			amplitude = 500
		}
		epochs[i] = models.Epoch{
			Index:   i,
			Samples: [][]float64{sine(amplitude), sine(amplitude)},
			PSD:     [][]float64{clone(psd), clone(psd)},
		}
	}

	return ingest.Document{
		Name:          "fixture",
		SamplingRate:  250,
		WindowSeconds: 30,
		Channels:      []string{"AF3", "AF4"},
		Freqs:         FixtureFreqs,
		Epochs:        epochs,
	}
}

// FixtureLabels is the expected timeline of Document.
func FixtureLabels() []models.Label {
	labels := make([]models.Label, 8)
	for i := range labels {
		labels[i] = models.LabelNeutral
	}
	labels[1] = models.LabelHighArousal
	labels[7] = models.LabelArtifact
	return labels
}

// Recording decodes Document the way an upload would be.
func Recording(t *testing.T) models.Recording {
	t.Helper()
	rec, err := ingest.Decode(bytes.NewReader(DocumentJSON(t, Document())))
	require.NoError(t, err)
	return rec
}

func DocumentJSON(t *testing.T, doc ingest.Document) []byte {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

func sine(amplitude float64) []float64 {
	out := make([]float64, 250)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*10*float64(i)/250)
	}
	return out
}

func clone(xs []float64) []float64 {
	return append([]float64(nil), xs...)
}
