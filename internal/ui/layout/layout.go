// Package layout composes the full-screen frame around a TUI screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sumrise/sumrise/internal/ui/theme"
)

// Smallest terminal the practice screen renders into.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is one key binding listed in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Score is the session tally shown in the header.
type Score struct {
	Attempts int
	Correct  int
}

// Accuracy returns Correct/Attempts, or 0 before the first attempt.
func (s Score) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small: %dx%d\nResize to at least %dx%d.", width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

// RenderHeader shows the brand on the left, the screen title centered and
// the score on the right.
func RenderHeader(title string, score Score, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("SumRise")
	tally := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("%d/%d correct  %.0f%%", score.Correct, score.Attempts, 100*score.Accuracy()))

	inner := max(width-bar.GetHorizontalFrameSize(), 0)
	side := max((inner-lipgloss.Width(title))/2, 0)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.PlaceHorizontal(side, lipgloss.Left, brand),
		theme.Body.Render(title),
		lipgloss.PlaceHorizontal(inner-side-lipgloss.Width(title), lipgloss.Right, tally),
	)
	return bar.Width(width).Render(row)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + theme.Hint.Render(h.Description)
	}
	return bar.Width(width).Render(strings.Join(parts, "  ·  "))
}

// RenderFrame stacks header, content and footer, giving the content every
// row the bars leave free.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
