package tuitest

import (
	"bytes"
	"strings"

	"github.com/hinshun/vt10x"
)

// Sequences that leave the alternate screen. The emulator clears the
// alternate buffer on the way out, so the screen is captured just before.
var altLeave = [][]byte{
	[]byte("\x1b[?1049l"),
	[]byte("\x1b[?1047l"),
	[]byte("\x1b[?47l"),
}

// Screen replays terminal output on a VT emulator. SGR attributes are
// ignored when reading it back.
type Screen struct {
	Width  int
	Height int

	vt vt10x.Terminal

	// AltSnapshot holds the alternate screen as it looked when the program
	// last left it.
	AltSnapshot string
}

// NewScreen returns a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Screen{
		Width:  width,
		Height: height,
		vt:     vt10x.New(vt10x.WithSize(width, height)),
	}
}

// Replay feeds raw terminal output into a fresh width x height screen.
func Replay(raw []byte, width, height int) *Screen {
	s := NewScreen(width, height)
	s.Write(raw)
	return s
}

// AltScreen reports whether the alternate screen is active.
func (s *Screen) AltScreen() bool {
	return s.vt.Mode()&vt10x.ModeAltScreen != 0
}

// CursorVisible reports whether the cursor was left visible.
func (s *Screen) CursorVisible() bool {
	return s.vt.CursorVisible()
}

// Row returns row i with trailing spaces removed.
func (s *Screen) Row(i int) string {
	if i < 0 || i >= s.Height {
		return ""
	}
	s.vt.Lock()
	defer s.vt.Unlock()
	return s.row(i)
}

// String renders the visible screen, one line per row, without trailing
// blanks.
func (s *Screen) String() string {
	s.vt.Lock()
	defer s.vt.Unlock()
	rows := make([]string, s.Height)
	for y := range rows {
		rows[y] = s.row(y)
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

// Write feeds p to the emulator. It never fails.
func (s *Screen) Write(p []byte) (int, error) {
	rest := p
	for len(rest) > 0 {
		at, n := nextAltLeave(rest)
		if at < 0 {
			s.vt.Write(rest)
			break
		}
		s.vt.Write(rest[:at])
		if s.AltScreen() {
			s.AltSnapshot = s.String()
		}
		s.vt.Write(rest[at : at+n])
		rest = rest[at+n:]
	}
	return len(p), nil
}

// row reads row y. The caller holds the emulator lock.
func (s *Screen) row(y int) string {
	var b strings.Builder
	for x := 0; x < s.Width; x++ {
		c := s.vt.Cell(x, y).Char
		if c == 0 {
			c = ' '
		}
		b.WriteRune(c)
	}
	return strings.TrimRight(b.String(), " ")
}

// nextAltLeave returns the offset and length of the first sequence leaving
// the alternate screen, or -1.
func nextAltLeave(p []byte) (int, int) {
	at, n := -1, 0
	for _, seq := range altLeave {
		if i := bytes.Index(p, seq); i >= 0 && (at < 0 || i < at) {
			at, n = i, len(seq)
		}
	}
	return at, n
}
