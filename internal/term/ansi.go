package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/cancelreader"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/togglebyte/afk/internal/event"
	"github.com/togglebyte/afk/internal/logging"
	"github.com/togglebyte/afk/internal/paint"
)

const readBufferSize = 256

// ANSI drives the terminal with escape sequences written to a buffered
// stdout. Input is read from a raw-mode stdin through a cancellable reader so
// Cleanup can release a blocked ReadKeys.
type ANSI struct {
	in    io.Reader
	inFd  int
	outFd int

	w        *bufio.Writer
	output   *termenv.Output
	renderer *lipgloss.Renderer
	styles   map[paint.Style]lipgloss.Style

	reader cancelreader.CancelReader
	saved  *xterm.State
	buf    []byte

	cleanup sync.Once
}

// NewANSI returns a backend bound to the given terminal files. The colour
// profile is detected from out and the environment.
func NewANSI(in, out *os.File) (*ANSI, error) {
	if !xterm.IsTerminal(int(in.Fd())) || !xterm.IsTerminal(int(out.Fd())) {
		return nil, ErrNotTerminal
	}
	profile := termenv.NewOutput(out).EnvColorProfile()
	a := newANSI(in, out, profile)
	a.inFd = int(in.Fd())
	a.outFd = int(out.Fd())
	return a, nil
}

// newANSI builds a backend over arbitrary streams. Raw mode and size queries
// are skipped until file descriptors are set.
func newANSI(in io.Reader, out io.Writer, profile termenv.Profile) *ANSI {
	w := bufio.NewWriter(out)
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return &ANSI{
		in:       in,
		inFd:     -1,
		outFd:    -1,
		w:        w,
		output:   termenv.NewOutput(w, termenv.WithProfile(profile)),
		renderer: renderer,
		styles:   make(map[paint.Style]lipgloss.Style),
		buf:      make([]byte, readBufferSize),
	}
}

// Init switches to raw mode and the alternate screen and hides the cursor.
func (a *ANSI) Init() error {
	if a.inFd >= 0 {
		saved, err := xterm.MakeRaw(a.inFd)
		if err != nil {
			return fmt.Errorf("term: enter raw mode: %w", err)
		}
		a.saved = saved
	}
	reader, err := cancelreader.NewReader(a.in)
	if err != nil {
		a.restore()
		return fmt.Errorf("term: open input: %w", err)
	}
	a.reader = reader

	a.output.AltScreen()
	a.output.ClearScreen()
	a.output.HideCursor()
	if err := a.Flush(); err != nil {
		a.Cleanup()
		return err
	}
	return nil
}

// Cleanup shows the cursor, leaves the alternate screen and restores the
// saved terminal mode. Only the first call has any effect.
func (a *ANSI) Cleanup() {
	a.cleanup.Do(func() {
		if a.reader != nil {
			a.reader.Cancel()
		}
		a.output.ShowCursor()
		a.output.ExitAltScreen()
		if err := a.w.Flush(); err != nil {
			logging.Errorf("[term] flush on cleanup: %v", err)
		}
		a.restore()
	})
}

func (a *ANSI) restore() {
	if a.saved == nil {
		return
	}
	if err := xterm.Restore(a.inFd, a.saved); err != nil {
		logging.Errorf("[term] restore mode: %v", err)
	}
	a.saved = nil
}

// MoveCursor positions the cursor at a zero-based cell.
func (a *ANSI) MoveCursor(col, row int) {
	a.output.MoveCursor(row+1, col+1)
}

// WriteStyled writes text at the cursor. Write errors are reported by Flush.
func (a *ANSI) WriteStyled(text string, style paint.Style) {
	if style == (paint.Style{}) {
		_, _ = a.w.WriteString(text)
		return
	}
	_, _ = a.w.WriteString(a.style(style).Render(text))
}

func (a *ANSI) style(s paint.Style) lipgloss.Style {
	if st, ok := a.styles[s]; ok {
		return st
	}
	st := a.renderer.NewStyle().Bold(s.Bold)
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	a.styles[s] = st
	return st
}

// Flush sends buffered output to the terminal.
func (a *ANSI) Flush() error {
	if err := a.w.Flush(); err != nil {
		return fmt.Errorf("term: write: %w", err)
	}
	return nil
}

// Size returns the terminal size, or zeros when it cannot be determined.
func (a *ANSI) Size() (int, int) {
	if a.outFd < 0 {
		return 0, 0
	}
	w, h, err := xterm.GetSize(a.outFd)
	if err != nil {
		logging.Tracef("[term] size: %v", err)
		return 0, 0
	}
	return w, h
}

// ReadKeys blocks until at least one key is decoded. After Cleanup it
// returns io.EOF.
func (a *ANSI) ReadKeys() ([]tea.KeyMsg, error) {
	if a.reader == nil {
		return nil, errors.New("term: input not initialised")
	}
	for {
		n, err := a.reader.Read(a.buf)
		if n > 0 {
			if keys := event.DecodeKeys(a.buf[:n]); len(keys) > 0 {
				return keys, nil
			}
		}
		if errors.Is(err, cancelreader.ErrCanceled) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("term: read input: %w", err)
		}
	}
}
