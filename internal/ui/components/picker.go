package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/sumrise/sumrise/internal/ui/theme"
)

// Picker is a horizontal single-choice selector.
type Picker struct {
	Label    string
	Options  []string
	Selected int
	Focused  bool
}

// NewPicker creates a picker with the first option selected.
func NewPicker(label string, options ...string) Picker {
	return Picker{Label: label, Options: options}
}

// Value returns the selected option, or "" if there are none.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// Update handles left/right navigation while focused. Selection wraps.
func (p Picker) Update(msg tea.Msg) Picker {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.Focused || len(p.Options) == 0 {
		return p
	}

	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Options)
	}
	return p
}

// View renders the label followed by every option.
func (p Picker) View() string {
	var b strings.Builder
	marker := "  "
	if p.Focused {
		marker = "▸ "
	}
	b.WriteString(theme.Label.Render(marker + p.Label + ":"))
	b.WriteString(" ")
	for i, opt := range p.Options {
		if i == p.Selected {
			b.WriteString(theme.OptionActive.Render(opt))
		} else {
			b.WriteString(theme.OptionInactive.Render(opt))
		}
	}
	return b.String()
}
