// Package font turns display text into rows of block-letter glyphs.
package font

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/common-nighthawk/go-figure"
)

// DefaultFont is the built-in FIGlet font used when none is configured.
const DefaultFont = "standard"

var (
	// ErrInvalidText is returned when renderer output is not UTF-8.
	ErrInvalidText = errors.New("font: rendered output is not valid UTF-8")
	// ErrUnknownFont is returned for a font name that is neither built in nor
	// a readable .flf file.
	ErrUnknownFont = errors.New("font: unknown font")
)

// Renderer converts text into newline separated glyph rows.
type Renderer interface {
	Render(text string) ([]byte, error)
}

// Lines validates renderer output and splits it into rows. A trailing newline
// does not produce an extra empty row.
func Lines(out []byte) ([]string, error) {
	if !utf8.Valid(out) {
		return nil, ErrInvalidText
	}
	if len(out) == 0 {
		return nil, nil
	}
	text := strings.TrimSuffix(string(out), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

// RenderLines renders text and splits the result with Lines.
func RenderLines(r Renderer, text string) ([]string, error) {
	out, err := r.Render(text)
	if err != nil {
		return nil, err
	}
	return Lines(out)
}

// Plain renders text verbatim.
type Plain struct{}

func (Plain) Render(text string) ([]byte, error) {
	return []byte(text), nil
}

// Figlet renders with a FIGlet font. The last result is memoised since the
// loop renders the same text several times per second.
type Figlet struct {
	name string
	data []byte

	lastText string
	lastOut  []byte
}

// NewFiglet loads a built-in font by name, or a font file when name ends in
// ".flf". The font is parsed once here so malformed data fails at startup.
func NewFiglet(name string) (*Figlet, error) {
	if name == "" {
		name = DefaultFont
	}
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(name, ".flf") {
		data, err = os.ReadFile(name)
	} else {
		data, err = figure.Asset(path.Join("fonts", name+".flf"))
	}
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownFont, name, err)
	}
	f := &Figlet{name: name, data: data}
	sample, err := f.Render("0123456789:-")
	if err != nil {
		return nil, fmt.Errorf("font: parse %q: %w", name, err)
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return nil, fmt.Errorf("font: parse %q: no glyph rows", name)
	}
	return f, nil
}

// Name returns the font name or path.
func (f *Figlet) Name() string {
	return f.name
}

// Render returns the glyph rows for text. Characters outside printable ASCII
// are drawn as '?'.
func (f *Figlet) Render(text string) (out []byte, err error) {
	if f.lastOut != nil && text == f.lastText {
		return f.lastOut, nil
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("font: render %q with %s: %v", text, f.name, r)
		}
	}()
	fig := figure.NewFigureWithFont(text, bytes.NewReader(f.data), false)
	rows := fig.Slicify()
	out = []byte(strings.Join(rows, "\n"))
	f.lastText, f.lastOut = text, out
	return out, nil
}
