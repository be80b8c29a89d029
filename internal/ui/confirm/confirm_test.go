package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func answer(t *testing.T, key tea.KeyMsg) (Model, ResultMsg) {
	t.Helper()
	m := New()
	m.Show("Clear cache?", "All cached audio will be deleted.", "clear-cache")

	m, cmd := m.Update(key)
	require.NotNil(t, cmd)
	res, ok := cmd().(ResultMsg)
	require.True(t, ok)
	return m, res
}

func TestUpdate_Answers(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want bool
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, true},
		{"y", runeKey("y"), true},
		{"Y", runeKey("Y"), true},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false},
		{"n", runeKey("n"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, res := answer(t, tt.key)

			assert.Equal(t, ResultMsg{Tag: "clear-cache", Confirmed: tt.want}, res)
			assert.False(t, m.Active())
		})
	}
}

func TestUpdate_OtherKeysSwallowed(t *testing.T) {
	m := New()
	m.Show("Clear cache?", "", "clear-cache")

	m, cmd := m.Update(runeKey("x"))

	assert.Nil(t, cmd)
	assert.True(t, m.Active())
}

func TestUpdate_Inactive(t *testing.T) {
	m, cmd := New().Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, m.Active())
}

func TestView(t *testing.T) {
	m := New()
	assert.Empty(t, m.View())

	m.Show("Clear cache?", "All cached audio will be deleted.", "clear-cache")
	out := ansi.Strip(m.View())

	assert.Contains(t, out, "Clear cache?")
	assert.Contains(t, out, "All cached audio will be deleted.")
	assert.Contains(t, out, "esc/n cancel")
}
