package models

type Label string

const (
	LabelArtifact    Label = "Artifact"
	LabelDrowsy      Label = "Drowsy"
	LabelHighArousal Label = "High Arousal"
	LabelHighFocus   Label = "High Focus"
	LabelLowFocus    Label = "Low Focus"
	LabelNeutral     Label = "Baseline/Neutral"
)

// Labels lists every label in report order.
var Labels = []Label{
	LabelHighFocus,
	LabelLowFocus,
	LabelDrowsy,
	LabelHighArousal,
	LabelNeutral,
	LabelArtifact,
}

// ScoreRecord is the epoch/baseline ratio for each candidate state.
type ScoreRecord struct {
	Drowsiness    float64 `json:"drowsiness_score"`
	Arousal       float64 `json:"arousal_score"`
	Focus         float64 `json:"focus_score"`
	MindWandering float64 `json:"mind_wandering_score"`
}

type ClassificationResult struct {
	Label  Label       `json:"label"`
	Scores ScoreRecord `json:"scores"`
}

// EpochDiagnostic records the outcome of the per-channel quality checks.
type EpochDiagnostic struct {
	Index         int      `json:"index"`
	TotalChannels int      `json:"total_channels"`
	BadChannels   []string `json:"bad_channels"`
	Noisy         bool     `json:"noisy"`
}

func (d EpochDiagnostic) BadCount() int {
	return len(d.BadChannels)
}
