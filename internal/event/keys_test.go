package event

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func keyNames(keys []tea.KeyMsg) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	return names
}

func TestDecodeKeys(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []string
	}{
		{name: "lone escape", in: []byte{0x1b}, want: []string{"esc"}},
		{name: "ctrl+c", in: []byte{0x03}, want: []string{"ctrl+c"}},
		{name: "runes", in: []byte("ab"), want: []string{"a", "b"}},
		{name: "space", in: []byte(" "), want: []string{" "}},
		{name: "enter", in: []byte{'\r'}, want: []string{"enter"}},
		{name: "arrow", in: []byte("\x1b[A"), want: []string{"up"}},
		{name: "ss3 arrow", in: []byte("\x1bOD"), want: []string{"left"}},
		{name: "unknown csi dropped", in: []byte("\x1b[1;5Ax"), want: []string{"x"}},
		{name: "truncated csi dropped", in: []byte("\x1b["), want: []string{}},
		{name: "alt rune", in: []byte("\x1bq"), want: []string{"alt+q"}},
		{name: "double escape", in: []byte{0x1b, 0x1b}, want: []string{"esc", "esc"}},
		{name: "utf8", in: []byte("é"), want: []string{"é"}},
		{name: "mixed", in: []byte("a\x03\x1b"), want: []string{"a", "ctrl+c", "esc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, keyNames(DecodeKeys(tc.in)))
		})
	}
}

func TestDefaultKeyMapQuit(t *testing.T) {
	km := DefaultKeyMap()
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, km.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, km.Quit))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyUp}, km.Quit))
}
