package app

import "github.com/togglebyte/afk/internal/paint"

// screenLayout tracks the terminal size and where each region starts.
type screenLayout struct {
	windowWidth  int
	windowHeight int
	captionRows  int
	origin       int
}

func newScreenLayout(captionRows int) screenLayout {
	l := screenLayout{captionRows: captionRows}
	l.origin = captionRows
	if l.origin < 1 {
		l.origin = 1
	}
	return l
}

// Update records a new terminal size and reports whether it changed. Zero
// sizes mean unknown and disable clipping.
func (l *screenLayout) Update(width, height int) bool {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == l.windowWidth && height == l.windowHeight {
		return false
	}
	l.windowWidth = width
	l.windowHeight = height
	return true
}

// fit compacts lines and drops rows that would fall below the bottom of the
// window when painted at origin.
func (l screenLayout) fit(lines []string, origin int) []string {
	lines = paint.Compact(lines)
	if l.windowHeight == 0 {
		return lines
	}
	room := l.windowHeight - origin
	if room < 0 {
		room = 0
	}
	if len(lines) > room {
		lines = lines[:room]
	}
	return lines
}
