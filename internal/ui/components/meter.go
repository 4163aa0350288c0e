package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sumrise/sumrise/internal/ui/theme"
)

// Meter is a one-line ratio gauge. The practice screen uses it for accuracy.
type Meter struct {
	Label       string
	Ratio       float64 // clamped to [0,1] when rendered
	Width       int     // total width including label and percentage
	ShowPercent bool
}

const minMeterCells = 4

// NewMeter creates a Meter.
func NewMeter(label string, ratio float64, showPercent bool, width int) Meter {
	return Meter{Label: label, Ratio: ratio, Width: width, ShowPercent: showPercent}
}

func (m Meter) View() string {
	ratio := min(max(m.Ratio, 0), 1)

	var label, percent string
	if m.Label != "" {
		label = theme.Label.Render(m.Label) + " "
	}
	if m.ShowPercent {
		percent = theme.Hint.Render(fmt.Sprintf(" %3d%%", int(ratio*100)))
	}

	cells := max(m.Width-lipgloss.Width(label)-lipgloss.Width(percent), minMeterCells)
	filled := int(float64(cells) * ratio)

	bar := theme.MeterFilled.Render(strings.Repeat("█", filled)) +
		theme.MeterEmpty.Render(strings.Repeat("░", cells-filled))
	return label + bar + percent
}
