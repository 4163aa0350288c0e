// Package tui implements the terminal practice session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sumrise/sumrise/internal/problem"
	"github.com/sumrise/sumrise/internal/ui/components"
	"github.com/sumrise/sumrise/internal/ui/layout"
	"github.com/sumrise/sumrise/internal/ui/theme"
)

// Choices offered by the session. The service itself accepts any string.
var (
	ProblemTypes = []string{"arithmetic", "algebra", "geometry"}
	Difficulties = []string{"easy", "medium", "hard"}
)

// Service is what the practice session needs from problem.Service.
type Service interface {
	Generate(ctx context.Context, problemType, difficulty string) (*problem.Generated, error)
	Grade(ctx context.Context, problemID, userWork, userAnswer string) (*problem.GradeResult, error)
}

type phase int

const (
	phaseIdle phase = iota
	phaseGenerating
	phaseSolving
	phaseGrading
)

type focusArea int

const (
	focusType focusArea = iota
	focusDifficulty
	focusWork
	focusAnswer
)

type generatedMsg struct{ gen *problem.Generated }

type gradedMsg struct{ res *problem.GradeResult }

type errMsg struct {
	op  string
	err error
}

// tickMsg refreshes the timer. seq ties it to one problem.
type tickMsg struct{ seq int }

// Model is the practice session's Bubble Tea model.
type Model struct {
	svc Service
	ctx context.Context
	now func() time.Time

	// schedule delays a message; swapped out in tests.
	schedule func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

	typePicker components.Picker
	diffPicker components.Picker
	work       textarea.Model
	answer     components.AnswerInput
	spinner    spinner.Model

	phase   phase
	focus   focusArea
	current *problem.Generated
	started time.Time
	seq     int
	result  *problem.GradeResult
	err     *errMsg
	score   layout.Score

	width  int
	height int
}

// New creates a practice session backed by svc.
func New(ctx context.Context, svc Service) Model {
	work := textarea.New()
	work.Placeholder = "Show your work..."
	work.ShowLineNumbers = false
	work.SetHeight(4)

	m := Model{
		svc:        svc,
		ctx:        ctx,
		now:        time.Now,
		schedule:   tea.Tick,
		typePicker: components.NewPicker("Problem type", ProblemTypes...),
		diffPicker: components.NewPicker("Difficulty", Difficulties...),
		work:       work,
		answer:     components.NewAnswerInput("Final answer", 200),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
	}
	m.typePicker.Focused = true
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.work.SetWidth(max(msg.Width-8, 20))
		m.answer.Model.SetWidth(max(msg.Width-12, 20))
		return m, nil

	case generatedMsg:
		m.phase = phaseSolving
		m.current = msg.gen
		m.result = nil
		m.err = nil
		m.started = m.now()
		m.seq++
		m.work.Reset()
		m.answer.Reset()
		focusCmd := m.setFocus(focusWork)
		return m, tea.Batch(focusCmd, m.tick())

	case gradedMsg:
		m.phase = phaseSolving
		m.result = msg.res
		m.err = nil
		m.score.Attempts++
		if msg.res.Correct {
			m.score.Correct++
		}
		m.answer.MarkGraded(msg.res.Correct)
		return m, nil

	case errMsg:
		m.err = &msg
		if m.current != nil {
			m.phase = phaseSolving
		} else {
			m.phase = phaseIdle
		}
		return m, nil

	case tickMsg:
		if msg.seq != m.seq || m.current == nil {
			return m, nil
		}
		return m, m.tick()

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		cmd := m.setFocus(m.nextFocus(1))
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus(m.nextFocus(-1))
		return m, cmd
	case "ctrl+g":
		return m.startGenerate()
	case "ctrl+s":
		return m.startGrade()
	case "ctrl+r":
		m.work.Reset()
		m.answer.Reset()
		m.result = nil
		return m, nil
	case "enter":
		switch m.focus {
		case focusType, focusDifficulty:
			return m.startGenerate()
		case focusAnswer:
			return m.startGrade()
		}
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusType:
		m.typePicker = m.typePicker.Update(msg)
	case focusDifficulty:
		m.diffPicker = m.diffPicker.Update(msg)
	case focusWork:
		m.work, cmd = m.work.Update(msg)
	case focusAnswer:
		m.answer, cmd = m.answer.Update(msg)
	}
	return m, cmd
}

func (m Model) busy() bool {
	return m.phase == phaseGenerating || m.phase == phaseGrading
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}
	m.phase = phaseGenerating
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.generate(m.typePicker.Value(), m.diffPicker.Value()))
}

func (m Model) startGrade() (tea.Model, tea.Cmd) {
	if m.busy() || m.current == nil {
		return m, nil
	}
	m.phase = phaseGrading
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.grade(m.current.ID, m.work.Value(), m.answer.Value()))
}

func (m Model) generate(problemType, difficulty string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		gen, err := svc.Generate(ctx, problemType, difficulty)
		if err != nil {
			return errMsg{op: "Generation", err: err}
		}
		return generatedMsg{gen: gen}
	}
}

func (m Model) grade(id, work, answer string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		res, err := svc.Grade(ctx, id, work, answer)
		if err != nil {
			return errMsg{op: "Grading", err: err}
		}
		return gradedMsg{res: res}
	}
}

func (m Model) tick() tea.Cmd {
	seq := m.seq
	return m.schedule(time.Second, func(time.Time) tea.Msg { return tickMsg{seq: seq} })
}

// nextFocus cycles through the fields that are currently usable.
func (m Model) nextFocus(step int) focusArea {
	n := 2
	if m.current != nil {
		n = 4
	}
	return focusArea((int(m.focus) + step + n) % n)
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.typePicker.Focused = f == focusType
	m.diffPicker.Focused = f == focusDifficulty
	m.work.Blur()
	m.answer.Blur()
	switch f {
	case focusWork:
		return m.work.Focus()
	case focusAnswer:
		return m.answer.Focus()
	}
	return nil
}

// Score returns the running totals.
func (m Model) Score() layout.Score {
	return m.score
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader("Practice", m.score, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.renderContent(), footer, m.width, m.height))
	return v
}

func (m Model) keyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+G", Description: "New problem"},
	}
	if m.current != nil {
		hints = append(hints,
			layout.KeyHint{Key: "Ctrl+S", Description: "Check"},
			layout.KeyHint{Key: "Ctrl+R", Description: "Clear"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (m Model) renderContent() string {
	var b strings.Builder
	b.WriteString(m.typePicker.View() + "\n")
	b.WriteString(m.diffPicker.View() + "\n\n")

	if m.phase == phaseGenerating {
		b.WriteString(m.spinner.View() + " Thinking up a good problem...\n")
	}

	if m.current == nil {
		if m.phase == phaseIdle {
			b.WriteString(theme.Hint.Render("Pick a type and difficulty, then press Enter to generate your first problem.") + "\n")
		}
	} else {
		cardWidth := max(m.width-4, 20)
		card := theme.Card.Width(cardWidth).Render(
			theme.Label.Render("Problem") + "\n\n" + theme.Body.Render(m.current.DisplayText))
		b.WriteString(card + "\n")
		b.WriteString(theme.Timer.Render(fmt.Sprintf("Time on this problem: %s", formatElapsed(m.now().Sub(m.started)))) + "\n\n")

		b.WriteString(theme.Label.Render("Show your work:") + "\n")
		b.WriteString(m.work.View() + "\n")
		b.WriteString(theme.Label.Render("Final answer: ") + m.answer.View() + "\n")
	}

	if m.phase == phaseGrading {
		b.WriteString("\n" + m.spinner.View() + " Grading your submission...\n")
	}

	if m.result != nil {
		b.WriteString("\n" + renderResult(m.result) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + theme.ErrorText.Render(describeError(m.err.op, m.err.err)) + "\n")
	}

	if m.score.Attempts > 0 {
		bar := components.NewMeter("Accuracy", m.score.Accuracy(), true, min(m.width-4, 50))
		b.WriteString("\n" + bar.View() + "\n")
	}

	return b.String()
}

func renderResult(res *problem.GradeResult) string {
	var verdict string
	if res.Correct {
		verdict = theme.Correct.Render("Correct!")
	} else {
		verdict = theme.Incorrect.Render("Incorrect.")
	}
	out := verdict
	if res.Feedback != "" {
		out += " " + theme.Body.Render(res.Feedback)
	}
	if !res.Correct && res.Hint != nil {
		out += "\n" + theme.HintBox.Render("Hint: "+*res.Hint)
	}
	return out
}

func describeError(op string, err error) string {
	switch problem.Classify(err) {
	case problem.KindUnknownProblem:
		return op + " failed: this problem is no longer available. Generate a new one."
	case problem.KindGateway:
		return op + " failed: the model service is unavailable. Try again shortly."
	case problem.KindMalformed:
		return op + " failed: the model returned an unreadable response. Try again."
	default:
		return fmt.Sprintf("%s failed: %v", op, err)
	}
}

func formatElapsed(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// Run starts the practice session and blocks until the user quits.
func Run(ctx context.Context, svc Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
