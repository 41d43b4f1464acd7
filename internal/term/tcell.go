package term

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/togglebyte/afk/internal/paint"
)

// Tcell draws through a tcell screen, which handles terminfo lookups and keeps
// its own cell buffer. Nothing reaches the terminal until Flush.
type Tcell struct {
	screen  tcell.Screen
	col     int
	row     int
	styles  map[paint.Style]tcell.Style
	cleanup sync.Once
}

// NewTcell wraps screen. The screen is initialised by Init.
func NewTcell(screen tcell.Screen) *Tcell {
	return &Tcell{
		screen: screen,
		styles: make(map[paint.Style]tcell.Style),
	}
}

// OpenTcell creates a backend on the process terminal.
func OpenTcell() (*Tcell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: open tcell screen: %w", err)
	}
	return NewTcell(screen), nil
}

// Init starts the screen with a hidden cursor and a cleared buffer.
func (t *Tcell) Init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("term: init tcell screen: %w", err)
	}
	t.screen.HideCursor()
	t.screen.Clear()
	t.screen.Show()
	return nil
}

// Cleanup finalises the screen, which restores the terminal and releases any
// pending PollEvent.
func (t *Tcell) Cleanup() {
	t.cleanup.Do(t.screen.Fini)
}

// MoveCursor sets where the next WriteStyled starts.
func (t *Tcell) MoveCursor(col, row int) {
	t.col, t.row = col, row
}

// WriteStyled places text cell by cell starting at the cursor. Wide runes
// take two cells.
func (t *Tcell) WriteStyled(text string, style paint.Style) {
	st := t.style(style)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		t.screen.SetContent(t.col, t.row, r, nil, st)
		t.col += w
	}
}

func (t *Tcell) style(s paint.Style) tcell.Style {
	if st, ok := t.styles[s]; ok {
		return st
	}
	st := tcell.StyleDefault.Bold(s.Bold)
	if idx, ok := paletteIndex(s.Foreground); ok {
		st = st.Foreground(tcell.PaletteColor(idx))
	} else if s.Foreground != "" {
		st = st.Foreground(tcell.GetColor(s.Foreground))
	}
	t.styles[s] = st
	return st
}

// Flush shows the pending cells.
func (t *Tcell) Flush() error {
	t.screen.Show()
	return nil
}

// Size returns the screen size in cells.
func (t *Tcell) Size() (int, int) {
	return t.screen.Size()
}

// ReadKeys waits for the next key event. Resize and other events are skipped.
// Once the screen is finalised it returns io.EOF.
func (t *Tcell) ReadKeys() ([]tea.KeyMsg, error) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil, io.EOF
		}
		kev, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		if msg, ok := keyMsg(kev); ok {
			return []tea.KeyMsg{msg}, nil
		}
	}
}

// keyMsg translates a tcell key event into the bubbletea key model.
func keyMsg(ev *tcell.EventKey) (tea.KeyMsg, bool) {
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}, Alt: ev.Modifiers()&tcell.ModAlt != 0}, true
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: ev.Modifiers()&tcell.ModAlt != 0}, true
	case k == tcell.KeyUp:
		return tea.KeyMsg{Type: tea.KeyUp}, true
	case k == tcell.KeyDown:
		return tea.KeyMsg{Type: tea.KeyDown}, true
	case k == tcell.KeyLeft:
		return tea.KeyMsg{Type: tea.KeyLeft}, true
	case k == tcell.KeyRight:
		return tea.KeyMsg{Type: tea.KeyRight}, true
	case k >= tcell.KeyCtrlSpace && k <= tcell.KeyCtrlUnderscore:
		return tea.KeyMsg{Type: tea.KeyType(k - tcell.KeyCtrlSpace)}, true
	case k < ' ' || k == tcell.KeyDEL:
		// bubbletea key types for control bytes are the byte values.
		return tea.KeyMsg{Type: tea.KeyType(k)}, true
	default:
		return tea.KeyMsg{}, false
	}
}
