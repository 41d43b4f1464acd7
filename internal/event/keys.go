package event

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	byteEscape = 0x1b
	byteDelete = 0x7f
)

// KeyMap lists the bindings the input listener reacts to.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap binds Escape and Ctrl+C to Quit.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc/ctrl+c", "quit"),
		),
	}
}

// DecodeKeys splits one raw terminal read into key messages.
//
// A lone Escape byte at the end of the read is the Escape key. Escape followed
// by '[' or 'O' starts a control sequence; arrow keys are decoded and anything
// else is dropped. Escape followed by any other character is that character
// with Alt held.
func DecodeKeys(b []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == byteEscape:
			if i+1 >= len(b) {
				keys = append(keys, tea.KeyMsg{Type: tea.KeyEsc})
				i++
				continue
			}
			next := b[i+1]
			if next == '[' || next == 'O' {
				k, n := decodeSequence(b[i:])
				if k != nil {
					keys = append(keys, *k)
				}
				i += n
				continue
			}
			if next == byteEscape {
				keys = append(keys, tea.KeyMsg{Type: tea.KeyEsc})
				i++
				continue
			}
			r, size := utf8.DecodeRune(b[i+1:])
			keys = append(keys, runeKey(r, true))
			i += 1 + size
		case c < 0x20 || c == byteDelete:
			keys = append(keys, tea.KeyMsg{Type: tea.KeyType(c)})
			i++
		default:
			r, size := utf8.DecodeRune(b[i:])
			keys = append(keys, runeKey(r, false))
			i += size
		}
	}
	return keys
}

func runeKey(r rune, alt bool) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}, Alt: alt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: alt}
}

// decodeSequence consumes a CSI or SS3 sequence starting at seq[0] == ESC and
// returns the decoded key, if known, and the number of bytes consumed.
func decodeSequence(seq []byte) (*tea.KeyMsg, int) {
	// ESC [ params... final, where final is in 0x40..0x7e.
	n := 2
	if seq[1] == '[' {
		for n < len(seq) && (seq[n] < 0x40 || seq[n] > 0x7e) {
			n++
		}
	}
	if n >= len(seq) {
		return nil, len(seq)
	}
	final := seq[n]
	n++
	if n != 3 {
		return nil, n
	}
	var t tea.KeyType
	switch final {
	case 'A':
		t = tea.KeyUp
	case 'B':
		t = tea.KeyDown
	case 'C':
		t = tea.KeyRight
	case 'D':
		t = tea.KeyLeft
	case 'H':
		t = tea.KeyHome
	case 'F':
		t = tea.KeyEnd
	default:
		return nil, n
	}
	return &tea.KeyMsg{Type: t}, n
}
