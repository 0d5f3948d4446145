package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/models"
)

func results(labels ...models.Label) []models.ClassificationResult {
	out := make([]models.ClassificationResult, len(labels))
	for i, l := range labels {
		out[i] = models.ClassificationResult{Label: l, Scores: models.ScoreRecord{Focus: float64(i)}}
	}
	return out
}

func TestAggregate_Profile(t *testing.T) {
	in := results(
		models.LabelNeutral, models.LabelHighFocus, models.LabelNeutral,
		models.LabelArtifact, models.LabelDrowsy, models.LabelNeutral,
	)

	s := analysis.Aggregate(in, 30, false)

	assert.Equal(t, map[models.Label]float64{
		models.LabelNeutral:   50,
		models.LabelHighFocus: 16.7,
		models.LabelArtifact:  16.7,
		models.LabelDrowsy:    16.7,
	}, s.SessionProfile)
	assert.NotContains(t, s.SessionProfile, models.LabelLowFocus, "unobserved labels are omitted")
}

func TestAggregate_ProfileSumsToHundred(t *testing.T) {
	tests := [][]models.Label{
		{models.LabelNeutral},
		{models.LabelNeutral, models.LabelDrowsy, models.LabelHighArousal},
		{models.LabelNeutral, models.LabelDrowsy, models.LabelDrowsy, models.LabelHighArousal, models.LabelLowFocus, models.LabelLowFocus, models.LabelArtifact},
	}

	for _, labels := range tests {
		s := analysis.Aggregate(results(labels...), 30, false)
		var sum float64
		for _, v := range s.SessionProfile {
			sum += v
		}
		assert.InDelta(t, 100.0, sum, 0.1+1e-9, "labels %v", labels)
	}
}

func TestAggregate_OrderAndMetadata(t *testing.T) {
	in := results(models.LabelLowFocus, models.LabelArtifact, models.LabelHighArousal)

	s := analysis.Aggregate(in, 4, true)

	assert.Equal(t, []models.Label{models.LabelLowFocus, models.LabelArtifact, models.LabelHighArousal}, s.Timeline)
	assert.Equal(t, []models.ScoreRecord{{Focus: 0}, {Focus: 1}, {Focus: 2}}, s.Scores)
	assert.Equal(t, models.SummaryMetadata{Windows: 3, WindowSizeSec: 4, QualityWarning: true}, s.Metadata)
}

func TestAggregate_Empty(t *testing.T) {
	s := analysis.Aggregate(nil, 30, false)
	assert.Empty(t, s.SessionProfile)
	assert.Empty(t, s.Timeline)
	assert.Zero(t, s.Metadata.Windows)
}
