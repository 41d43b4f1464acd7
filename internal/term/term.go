// Package term provides the terminal services the countdown draws on: entering
// and leaving full-screen mode, cursor moves, styled writes and key input.
package term

import (
	"errors"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/togglebyte/afk/internal/paint"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("term: not a terminal")

// Terminal is one full-screen terminal session.
//
// Init must be called before anything else. Cleanup restores the terminal to
// the state Init found it in; it may be called any number of times. ReadKeys
// may be called from a different goroutine than the drawing methods.
type Terminal interface {
	paint.Screen
	Init() error
	Cleanup()
	Flush() error
	Size() (width, height int)
	ReadKeys() ([]tea.KeyMsg, error)
}

var (
	_ Terminal = (*ANSI)(nil)
	_ Terminal = (*Tcell)(nil)
)

// Backend names selectable with --backend.
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// paletteIndex reports whether fg is an ANSI palette index such as "9".
func paletteIndex(fg string) (int, bool) {
	n, err := strconv.Atoi(fg)
	if err != nil || n < 0 || n > 255 {
		return 0, false
	}
	return n, true
}
