// Package report renders a session summary for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/vytor/neuroprofile/internal/models"
)

type Options struct {
	Title      string
	Width      int // total width in columns
	PlotHeight int
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Session profile"
	}
	if o.Width < 40 {
		o.Width = 80
	}
	if o.PlotHeight < 3 {
		o.PlotHeight = 10
	}
	return o
}

// Render lays out the quality banner, the per-state percentage bars, the
// epoch timeline and the four score series.
func Render(summary models.SessionSummary, opts Options) string {
	opts = opts.withDefaults()

	sections := []string{titleStyle.Render(fmt.Sprintf("%s · %d epochs of %gs", opts.Title, summary.Metadata.Windows, summary.Metadata.WindowSizeSec))}
	if summary.Metadata.QualityWarning {
		sections = append(sections, warningStyle.Render("Quality warning: every epoch failed the signal checks, baseline built from the full session"))
	}
	sections = append(sections,
		sectionStyle.Render("States"),
		renderProfile(summary.SessionProfile, opts.Width),
		"",
		sectionStyle.Render("Timeline"),
		renderTimeline(summary.Timeline, opts.Width),
		renderLegend(),
		"",
		sectionStyle.Render("Scores vs baseline"),
		renderScores(summary.Scores, opts.Width, opts.PlotHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func renderProfile(profile map[models.Label]float64, width int) string {
	labelWidth := 0
	for _, l := range models.Labels {
		labelWidth = max(labelWidth, len(l))
	}
	barWidth := max(width-labelWidth-10, 10)

	var lines []string
	for _, l := range models.Labels {
		pct, ok := profile[l]
		if !ok {
			continue
		}
		n := int(pct / 100 * float64(barWidth))
		bar := stateStyle(l).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%-*s │%s %5.1f%%", labelWidth, l, bar, pct))
	}
	if len(lines) == 0 {
		return mutedStyle.Render("no epochs")
	}
	return strings.Join(lines, "\n")
}

func renderTimeline(timeline []models.Label, width int) string {
	if len(timeline) == 0 {
		return mutedStyle.Render("no epochs")
	}
	var b strings.Builder
	for i, l := range timeline {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		glyph, ok := stateGlyphs[l]
		if !ok {
			glyph = "?"
		}
		b.WriteString(stateStyle(l).Render(glyph))
	}
	return b.String()
}

func renderLegend() string {
	parts := make([]string, 0, len(models.Labels))
	for _, l := range models.Labels {
		parts = append(parts, stateStyle(l).Render(stateGlyphs[l])+" "+string(l))
	}
	return mutedStyle.Render("legend: ") + strings.Join(parts, "  ")
}

func renderScores(scores []models.ScoreRecord, width, height int) string {
	if len(scores) < 2 {
		return mutedStyle.Render("not enough epochs to plot")
	}

	series := make([][]float64, len(scoreSeriesList))
	colors := make([]asciigraph.AnsiColor, len(scoreSeriesList))
	legends := make([]string, len(scoreSeriesList))
	for i, s := range scoreSeriesList {
		series[i] = make([]float64, len(scores))
		for j, rec := range scores {
			series[i][j] = s.value(rec)
		}
		colors[i] = s.color
		legends[i] = s.name
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(max(width-10, 20)),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("epoch ratio / baseline ratio"),
	)
}
