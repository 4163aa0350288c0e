// Package theme holds the SumRise palette and the shared lipgloss styles.
package theme

import "charm.land/lipgloss/v2"

// Sunrise palette on a night-sky background.
var (
	Primary = lipgloss.Color("#F59E0B") // amber
	Accent  = lipgloss.Color("#FB7185") // coral
	Sky     = lipgloss.Color("#38BDF8")
	Success = lipgloss.Color("#4ADE80")
	Error   = lipgloss.Color("#EF4444")
	Text    = lipgloss.Color("#F1F5F9")
	TextDim = lipgloss.Color("#8B9BB4")
	BgCard  = lipgloss.Color("#1B2440")
	Border  = lipgloss.Color("#3B4A6B")
)

var (
	Body      = lipgloss.NewStyle().Foreground(Text)
	Hint      = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Label     = lipgloss.NewStyle().Foreground(Sky).Bold(true)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Timer     = lipgloss.NewStyle().Foreground(Accent)

	// Card frames the problem statement.
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Background(BgCard).
		Padding(1, 2)

	// HintBox is the left-ruled block shown under a wrong answer.
	HintBox = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(Primary).
		Foreground(Primary).
		PaddingLeft(1)
)

// Grading verdicts.
var (
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Picker options and the accuracy meter.
var (
	OptionActive   = lipgloss.NewStyle().Background(Primary).Foreground(BgCard).Bold(true).Padding(0, 1)
	OptionInactive = lipgloss.NewStyle().Foreground(TextDim).Padding(0, 1)
	MeterFilled    = lipgloss.NewStyle().Foreground(Sky)
	MeterEmpty     = lipgloss.NewStyle().Foreground(Border)
)
