// Package confirm provides a yes/no confirmation popup.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chants/internal/ui/styles"
)

// ResultMsg reports the answer. Tag identifies what was asked.
type ResultMsg struct {
	Tag       string
	Confirmed bool
}

// Model is a yes/no confirmation popup.
type Model struct {
	title   string
	message string
	tag     string
	active  bool
}

// New creates a hidden confirmation.
func New() Model {
	return Model{}
}

// Show displays the popup. The answer is delivered as a ResultMsg carrying
// tag.
func (m *Model) Show(title, message, tag string) {
	m.title = title
	m.message = message
	m.tag = tag
	m.active = true
}

// Active returns whether the popup is shown.
func (m Model) Active() bool {
	return m.active
}

// Update handles a key while active. Enter and y confirm, esc and n cancel;
// other keys are swallowed.
func (m Model) Update(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	var confirmed bool
	switch msg.String() {
	case "enter", "y", "Y":
		confirmed = true
	case "esc", "n", "N":
	default:
		return m, nil
	}

	m.active = false
	res := ResultMsg{Tag: m.tag, Confirmed: confirmed}
	return m, func() tea.Msg { return res }
}

// View renders the popup box, or "" when hidden.
func (m Model) View() string {
	if !m.active {
		return ""
	}
	s := styles.T().S()
	content := s.Title.Render(m.title) + "\n\n" +
		s.Base.Render(m.message) + "\n\n" +
		s.Subtle.Render("enter/y confirm · esc/n cancel")
	return s.Popup.Render(content)
}
