package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dialogKind int

const (
	dialogUpload dialogKind = iota
	dialogCategory
	dialogAlerts
)

// dialog is a small form of text inputs
type dialog struct {
	kind   dialogKind
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

func newPathDialog(kind dialogKind, title string) *dialog {
	d := &dialog{
		kind:   kind,
		title:  title,
		labels: []string{"PDF path"},
		inputs: []textinput.Model{newInput("/path/to/patient-file.pdf", 1024)},
	}
	d.inputs[0].Focus()
	return d
}

func newCategoryDialog() *dialog {
	d := &dialog{
		kind:   dialogCategory,
		title:  "Add reminder category",
		labels: []string{"Name", "Description"},
		inputs: []textinput.Model{
			newInput("e.g. Dental", 80),
			newInput("What this category covers", 240),
		},
	}
	d.inputs[0].Focus()
	return d
}

// values returns the trimmed input values
func (d *dialog) values() []string {
	out := make([]string, len(d.inputs))
	for i, in := range d.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func (d *dialog) onLast() bool {
	return d.focus == len(d.inputs)-1
}

// move shifts focus between inputs, wrapping around
func (d *dialog) move(delta int) tea.Cmd {
	d.inputs[d.focus].Blur()
	d.focus = (d.focus + delta + len(d.inputs)) % len(d.inputs)
	return d.inputs[d.focus].Focus()
}

func (d *dialog) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return cmd
}

func (d *dialog) view(s *Styles, busy bool) string {
	rows := []string{s.Render(s.Header, d.title), ""}
	for i, in := range d.inputs {
		rows = append(rows, s.Render(s.Muted, d.labels[i]), in.View(), "")
	}

	hint := "enter submit • tab next field • esc cancel"
	if busy {
		hint = "working..."
	}
	rows = append(rows, s.Render(s.Muted, hint))
	return s.Render(s.Dialog, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

type confirmKind int

const (
	confirmDeleteRecord confirmKind = iota
	confirmDeleteCategory
)

// confirmation asks before a destructive action
type confirmation struct {
	kind  confirmKind
	id    string
	label string
}

func (c *confirmation) view(s *Styles) string {
	what := "patient file"
	if c.kind == confirmDeleteCategory {
		what = "reminder category"
	}
	rows := []string{
		s.Render(s.Warning, "Delete "+what+"?"),
		"",
		c.label,
		"",
		s.Render(s.Muted, "y confirm • n cancel"),
	}
	return s.Render(s.Dialog, lipgloss.JoinVertical(lipgloss.Left, rows...))
}
