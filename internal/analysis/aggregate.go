package analysis

import (
	"math"

	"github.com/vytor/neuroprofile/internal/models"
)

// Aggregate rolls per-epoch results, in epoch order, into the session summary.
// Only observed labels appear in the profile.
func Aggregate(results []models.ClassificationResult, windowSeconds float64, qualityWarning bool) models.SessionSummary {
	counts := make(map[models.Label]int)
	timeline := make([]models.Label, len(results))
	scores := make([]models.ScoreRecord, len(results))
	for i, r := range results {
		counts[r.Label]++
		timeline[i] = r.Label
		scores[i] = r.Scores
	}

	profile := make(map[models.Label]float64, len(counts))
	for label, n := range counts {
		profile[label] = round1(float64(n) / float64(len(results)) * 100)
	}

	return models.SessionSummary{
		SessionProfile: profile,
		Timeline:       timeline,
		Scores:         scores,
		Metadata: models.SummaryMetadata{
			Windows:        len(results),
			WindowSizeSec:  windowSeconds,
			QualityWarning: qualityWarning,
		},
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
