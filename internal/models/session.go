package models

import "time"

const (
	SessionStatusPending    = "pending"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

type SessionSummary struct {
	SessionProfile map[Label]float64 `json:"session_profile"`
	Timeline       []Label           `json:"timeline"`
	Metadata       SummaryMetadata   `json:"metadata"`
	Scores         []ScoreRecord     `json:"scores"`
}

type SummaryMetadata struct {
	Windows        int     `json:"windows"`
	WindowSizeSec  float64 `json:"window_size_sec"`
	QualityWarning bool    `json:"quality_warning"`
}

type Session struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	SamplingRate   float64         `json:"sampling_rate"`
	WindowSeconds  float64         `json:"window_seconds"`
	EpochCount     int             `json:"epoch_count"`
	QualityWarning bool            `json:"quality_warning"`
	Summary        *SessionSummary `json:"summary,omitempty"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

type SessionFilter struct {
	Status   string
	Limit    int
	Offset   int
	OrderDir string
}

type EpochResult struct {
	SessionID   string      `json:"session_id"`
	EpochIndex  int         `json:"epoch_index"`
	Label       Label       `json:"label"`
	Scores      ScoreRecord `json:"scores"`
	Noisy       bool        `json:"noisy"`
	BadChannels []string    `json:"bad_channels"`
}

type LabelTotal struct {
	Label  Label `json:"label"`
	Epochs int   `json:"epochs"`
}
