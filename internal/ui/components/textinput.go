package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sumrise/sumrise/internal/ui/theme"
)

// AnswerInput wraps bubbles/textinput and marks the answer once graded.
type AnswerInput struct {
	Model   textinput.Model
	graded  bool
	correct bool
}

// NewAnswerInput creates a new single-line answer input.
func NewAnswerInput(placeholder string, charLimit int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return AnswerInput{Model: ti}
}

// Update forwards messages to the text input. Editing clears the mark.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	before := a.Model.Value()
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	if a.Model.Value() != before {
		a.graded = false
	}
	return a, cmd
}

// View renders the input with a ✓/✗ once graded.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if a.graded {
		if a.correct {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (a AnswerInput) Value() string {
	return a.Model.Value()
}

// Focus focuses the input.
func (a *AnswerInput) Focus() tea.Cmd {
	return a.Model.Focus()
}

// Blur removes focus.
func (a *AnswerInput) Blur() {
	a.Model.Blur()
}

// Reset clears the value and the mark.
func (a *AnswerInput) Reset() {
	a.Model.Reset()
	a.graded = false
}

// MarkGraded records the verdict for the current value.
func (a *AnswerInput) MarkGraded(correct bool) {
	a.graded = true
	a.correct = correct
}
