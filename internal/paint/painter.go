// Package paint redraws a block of text lines in place, touching only the
// rows that changed since the previous frame.
package paint

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// Style describes how painted text is coloured. The zero value is the
// terminal's default.
type Style struct {
	// Foreground is a hex colour ("#ff8800") or an ANSI index ("9").
	Foreground string
	Bold       bool
}

// Screen is the part of a terminal the painter drives. Coordinates are
// zero-based.
type Screen interface {
	MoveCursor(col, row int)
	WriteStyled(text string, style Style)
}

// Stats counts the operations issued by one Paint call.
type Stats struct {
	Erased  int
	Written int
}

// Painter owns one screen region anchored at a fixed origin row.
type Painter struct {
	origin int
	width  int
	style  Style
	prev   []string
}

// NewPainter returns a painter for the region starting at row origin.
func NewPainter(origin int, style Style) *Painter {
	return &Painter{origin: origin, style: style}
}

// Origin returns the first row of the region.
func (p *Painter) Origin() int {
	return p.origin
}

// SetWidth clips painted rows to width columns; zero disables clipping.
func (p *Painter) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	p.width = width
}

// Previous returns the rows currently on screen, after compaction and
// clipping.
func (p *Painter) Previous() []string {
	return append([]string(nil), p.prev...)
}

// Paint replaces the region's content with lines.
//
// Blank rows are squeezed out so glyph output with empty rows leaves no
// vertical gaps. Every previously drawn row that differs from the new row at
// the same position is overwritten with spaces as wide as the old row, then
// every new row that differs is written. Unchanged rows are left alone, so
// painting the same frame twice issues no operations the second time.
func (p *Painter) Paint(s Screen, lines []string) Stats {
	cur := Compact(lines)
	for i, line := range cur {
		cur[i] = p.clip(line)
	}

	var stats Stats
	for i, old := range p.prev {
		if i < len(cur) && cur[i] == old {
			continue
		}
		w := runewidth.StringWidth(old)
		if p.width > 0 && w > p.width {
			w = p.width
		}
		if w == 0 {
			continue
		}
		s.MoveCursor(0, p.origin+i)
		s.WriteStyled(strings.Repeat(" ", w), Style{})
		stats.Erased++
	}

	for i, line := range cur {
		if i < len(p.prev) && p.prev[i] == line {
			continue
		}
		s.MoveCursor(0, p.origin+i)
		s.WriteStyled(line, p.style)
		stats.Written++
	}

	p.prev = cur
	return stats
}

func (p *Painter) clip(line string) string {
	if p.width <= 0 || runewidth.StringWidth(line) <= p.width {
		return line
	}
	return truncate.String(line, uint(p.width))
}

// Compact drops blank rows, returning the rows Paint would draw.
func Compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !isBlank(line) {
			out = append(out, line)
		}
	}
	return out
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
