package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/vytor/neuroprofile/internal/models"
)

// State colours.
var stateColors = map[models.Label]lipgloss.Color{
	models.LabelHighFocus:   lipgloss.Color("#2ecc71"),
	models.LabelLowFocus:    lipgloss.Color("#3498db"),
	models.LabelDrowsy:      lipgloss.Color("#f1c40f"),
	models.LabelHighArousal: lipgloss.Color("#9b59b6"),
	models.LabelNeutral:     lipgloss.Color("#95a5a6"),
	models.LabelArtifact:    lipgloss.Color("#e74c3c"),
}

// Timeline glyphs, readable without colour.
var stateGlyphs = map[models.Label]string{
	models.LabelHighFocus:   "F",
	models.LabelLowFocus:    "W",
	models.LabelDrowsy:      "D",
	models.LabelHighArousal: "A",
	models.LabelNeutral:     "·",
	models.LabelArtifact:    "x",
}

type scoreSeries struct {
	name  string
	color asciigraph.AnsiColor
	value func(models.ScoreRecord) float64
}

// Plotted in this order; hues follow the state palette.
var scoreSeriesList = []scoreSeries{
	{"focus", asciigraph.Green, func(s models.ScoreRecord) float64 { return s.Focus }},
	{"mind wandering", asciigraph.DodgerBlue, func(s models.ScoreRecord) float64 { return s.MindWandering }},
	{"drowsiness", asciigraph.Gold, func(s models.ScoreRecord) float64 { return s.Drowsiness }},
	{"arousal", asciigraph.DarkViolet, func(s models.ScoreRecord) float64 { return s.Arousal }},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e74c3c")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e74c3c")).
			Padding(0, 1)
)

func stateStyle(l models.Label) lipgloss.Style {
	c, ok := stateColors[l]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}
