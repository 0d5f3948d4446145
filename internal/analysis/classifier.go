package analysis

import (
	"errors"
	"fmt"

	"github.com/vytor/neuroprofile/internal/models"
)

type candidate struct {
	label models.Label
	index models.Index
}

// candidates is the tie-break order: on equal ratios the earlier entry wins.
var candidates = []candidate{
	{models.LabelDrowsy, models.IndexDrowsiness},
	{models.LabelHighArousal, models.IndexArousal},
	{models.LabelHighFocus, models.IndexFocus},
	{models.LabelLowFocus, models.IndexMindWandering},
}

// Classifier labels one epoch relative to the session baseline. It is stateless
// and safe for concurrent use.
type Classifier struct {
	Threshold    float64
	PowerCeiling float64
}

func NewClassifier(cfg PipelineConfig) Classifier {
	return Classifier{Threshold: cfg.Threshold, PowerCeiling: cfg.PowerCeiling}
}

// CheckBaseline fails with ErrDataIntegrity when the baseline cannot be used as
// a denominator for every candidate.
func CheckBaseline(baseline models.BandPowerMetrics) error {
	if !metricsFinite(baseline) {
		return fmt.Errorf("%w: baseline metrics are not finite", ErrDataIntegrity)
	}
	for _, c := range candidates {
		v, ok := baseline.Index(c.index)
		if !ok || v == 0 {
			return &RatioError{Index: c.index, Baseline: true}
		}
	}
	return nil
}

// Scores divides each epoch index by the baseline index. An undefined epoch
// index, or a quotient that is not finite, leaves its score at zero and is
// reported as a *RatioError alongside the partially filled record.
func (c Classifier) Scores(epoch, baseline models.BandPowerMetrics) (models.ScoreRecord, error) {
	var rec models.ScoreRecord
	if err := CheckBaseline(baseline); err != nil {
		return rec, err
	}
	if !metricsFinite(epoch) {
		return rec, fmt.Errorf("%w: epoch metrics are not finite", ErrDataIntegrity)
	}

	var undefined error
	for _, cand := range candidates {
		v, ok := epoch.Index(cand.index)
		if ok {
			b, _ := baseline.Index(cand.index)
			// a large index over a tiny baseline can still overflow
			v, ok = ratio(v, b)
		}
		if !ok {
			if undefined == nil {
				undefined = &RatioError{Index: cand.index}
			}
			continue
		}
		setScore(&rec, cand.index, v)
	}
	return rec, undefined
}

// Classify applies the artifact gate, picks the candidate with the largest
// score and falls back to Baseline/Neutral below the threshold.
//
// When an epoch ratio is undefined the result is Artifact and the returned
// error wraps ErrUndefinedRatio; the result is still meaningful in that case.
// Any other error leaves the result empty.
func (c Classifier) Classify(epoch, baseline models.BandPowerMetrics, noisy bool) (models.ClassificationResult, error) {
	scores, err := c.Scores(epoch, baseline)
	if err != nil {
		if errors.Is(err, ErrUndefinedRatio) {
			return models.ClassificationResult{Label: models.LabelArtifact, Scores: scores}, err
		}
		return models.ClassificationResult{}, err
	}

	res := models.ClassificationResult{Scores: scores}
	if noisy || epoch.TotalPower > c.PowerCeiling {
		res.Label = models.LabelArtifact
		return res, nil
	}

	best := candidates[0]
	bestScore := score(scores, best.index)
	for _, cand := range candidates[1:] {
		if s := score(scores, cand.index); s > bestScore {
			best, bestScore = cand, s
		}
	}

	if bestScore < c.Threshold {
		res.Label = models.LabelNeutral
	} else {
		res.Label = best.label
	}
	return res, nil
}

func setScore(r *models.ScoreRecord, i models.Index, v float64) {
	switch i {
	case models.IndexDrowsiness:
		r.Drowsiness = v
	case models.IndexArousal:
		r.Arousal = v
	case models.IndexFocus:
		r.Focus = v
	case models.IndexMindWandering:
		r.MindWandering = v
	}
}

func score(r models.ScoreRecord, i models.Index) float64 {
	switch i {
	case models.IndexDrowsiness:
		return r.Drowsiness
	case models.IndexArousal:
		return r.Arousal
	case models.IndexFocus:
		return r.Focus
	case models.IndexMindWandering:
		return r.MindWandering
	}
	return 0
}

func metricsFinite(m models.BandPowerMetrics) bool {
	for _, v := range []float64{
		m.Delta, m.Theta, m.Alpha, m.Beta, m.Gamma,
		m.FocusIndex, m.MindWanderingIndex, m.ArousalIndex, m.DrowsinessIndex,
		m.TotalPower,
	} {
		if !finite(v) {
			return false
		}
	}
	return true
}
