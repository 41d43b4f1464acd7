// Package app runs the countdown: it owns the terminal for the duration of
// the run, merges ticks and key presses, and repaints the numerals in place.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/togglebyte/afk/internal/config"
	"github.com/togglebyte/afk/internal/countdown"
	"github.com/togglebyte/afk/internal/event"
	"github.com/togglebyte/afk/internal/font"
	"github.com/togglebyte/afk/internal/logging"
	"github.com/togglebyte/afk/internal/paint"
	"github.com/togglebyte/afk/internal/term"
)

// DefaultFrameInterval is the pause between loop iterations. It also bounds
// how late a blink flip can be.
const DefaultFrameInterval = 100 * time.Millisecond

// App is one countdown run.
type App struct {
	cfg      config.TimerConfig
	term     term.Terminal
	numerals font.Renderer
	caption  font.Renderer
	keys     event.KeyMap

	now           func() time.Time
	frameInterval time.Duration
	tickInterval  time.Duration
}

// Option customises an App.
type Option func(*App)

// WithClock replaces time.Now for blink timing.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithFrameInterval sets the pause between loop iterations.
func WithFrameInterval(d time.Duration) Option {
	return func(a *App) { a.frameInterval = d }
}

// WithTickInterval sets how often the countdown advances.
func WithTickInterval(d time.Duration) Option {
	return func(a *App) { a.tickInterval = d }
}

// WithKeyMap replaces the quit bindings.
func WithKeyMap(keys event.KeyMap) Option {
	return func(a *App) { a.keys = keys }
}

// New prepares a run drawing numerals with the given renderer. The caption
// uses the same renderer when cfg.CaptionFont is set and is drawn verbatim
// otherwise.
func New(cfg config.TimerConfig, t term.Terminal, numerals font.Renderer, opts ...Option) (*App, error) {
	if t == nil {
		return nil, errors.New("app: nil terminal")
	}
	if numerals == nil {
		return nil, errors.New("app: nil renderer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		cfg:           cfg,
		term:          t,
		numerals:      numerals,
		caption:       font.Plain{},
		keys:          event.DefaultKeyMap(),
		now:           time.Now,
		frameInterval: DefaultFrameInterval,
		tickInterval:  event.DefaultTickInterval,
	}
	if cfg.CaptionFont {
		a.caption = numerals
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run takes over the terminal until a quit key is pressed, ctx is cancelled
// or the terminal fails. The terminal is restored before Run returns, also
// when it panics.
func (a *App) Run(ctx context.Context) error {
	if err := a.term.Init(); err != nil {
		return err
	}
	defer a.term.Cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dispatcher := event.NewDispatcher(a.term, a.keys, a.tickInterval)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	captionLines := a.renderCaption()
	layout := newScreenLayout(len(paint.Compact(captionLines)))
	captionPainter := paint.NewPainter(0, a.cfg.Style)
	numeralPainter := paint.NewPainter(layout.origin, a.cfg.Style)

	state := countdown.New(a.cfg.Countdown(), a.now())
	queue := dispatcher.Events()
	logging.Infof("[loop] started: %ds, origin row %d", a.cfg.InitialSeconds, layout.origin)

	relayout := func() {
		captionPainter.SetWidth(layout.windowWidth)
		numeralPainter.SetWidth(layout.windowWidth)
		captionPainter.Paint(a.term, layout.fit(captionLines, 0))
	}
	layout.Update(a.term.Size())
	relayout()

	for {
		if layout.Update(a.term.Size()) {
			logging.Debugf("[loop] resized to %dx%d", layout.windowWidth, layout.windowHeight)
			relayout()
		}

		if state.Blink(a.now()) {
			logging.Tracef("[loop] blink phase on=%t", state.PhaseOn())
		}
		if frame, ok := a.numeralFrame(state); ok {
			numeralPainter.Paint(a.term, layout.fit(frame, layout.origin))
		}
		if err := a.term.Flush(); err != nil {
			logging.Errorf("[loop] %v", err)
			return fmt.Errorf("app: %w", err)
		}

		if drain(queue, state, a.now) {
			logging.Infof("[loop] quit at %s", state.Text())
			return nil
		}

		select {
		case <-ctx.Done():
			logging.Infof("[loop] context done: %v", context.Cause(ctx))
			return nil
		case <-time.After(a.frameInterval):
		}
	}
}

// renderCaption renders the caption once. A failed render leaves the
// caption area empty.
func (a *App) renderCaption() []string {
	if a.cfg.Caption == "" {
		return nil
	}
	lines, err := font.RenderLines(a.caption, a.cfg.Caption)
	if err != nil {
		logging.Debugf("[loop] render caption: %v", err)
		return nil
	}
	return lines
}

// numeralFrame returns the rows to paint this iteration. It reports false
// when rendering failed and the previous frame should stay on screen.
func (a *App) numeralFrame(state *countdown.State) ([]string, bool) {
	if !state.Visible() {
		return nil, true
	}
	text := state.Text()
	lines, err := font.RenderLines(a.numerals, text)
	if err != nil {
		logging.Debugf("[loop] render %q: %v", text, err)
		return nil, false
	}
	return lines, true
}

// drain applies every queued event in order and reports whether a Quit was
// seen. Events queued behind the Quit are dropped.
func drain(q *event.Queue, state *countdown.State, now func() time.Time) bool {
	for {
		ev, ok := q.TryRecv()
		if !ok {
			return false
		}
		switch ev.Kind {
		case event.Tick:
			if state.Tick(now()) {
				logging.Tracef("[loop] tick: %d", state.Remaining())
			}
		case event.Quit:
			return true
		}
	}
}
