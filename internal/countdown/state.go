// Package countdown holds the timer state machine: per-second countdown,
// optional negative overrun, and the blink phase shown once time is up.
package countdown

import "time"

// DefaultBlinkRate is used when a zero blink rate is configured.
const DefaultBlinkRate = 500 * time.Millisecond

// Options are the parts of the timer configuration the state machine reads.
type Options struct {
	InitialSeconds int64
	AllowNegative  bool
	LeadingZeros   bool
	BlinkRate      time.Duration
}

// State is owned by a single goroutine; it is not safe for concurrent use.
type State struct {
	opts Options

	remaining  int64
	phaseOn    bool
	lastToggle time.Time
}

// New returns a counting state started at now.
func New(opts Options, now time.Time) *State {
	if opts.BlinkRate <= 0 {
		opts.BlinkRate = DefaultBlinkRate
	}
	return &State{
		opts:       opts,
		remaining:  opts.InitialSeconds,
		phaseOn:    true,
		lastToggle: now,
	}
}

// Tick advances the countdown by one second at now. It reports whether the
// remaining time changed. Reaching zero starts the first blink period.
func (s *State) Tick(now time.Time) bool {
	if s.remaining <= 0 && !s.opts.AllowNegative {
		return false
	}
	s.remaining--
	if s.Blinking() {
		s.phaseOn = true
		s.lastToggle = now
	}
	return true
}

// Blinking reports whether time is up and the display should blink.
func (s *State) Blinking() bool {
	return s.remaining == 0 && !s.opts.AllowNegative
}

// Blink flips the blink phase once BlinkRate has elapsed since the last flip
// and reports whether it flipped. Outside the blinking regime the phase stays
// on.
func (s *State) Blink(now time.Time) bool {
	if !s.Blinking() {
		s.phaseOn = true
		return false
	}
	if now.Sub(s.lastToggle) < s.opts.BlinkRate {
		return false
	}
	s.phaseOn = !s.phaseOn
	s.lastToggle = now
	return true
}

// Visible reports whether the numerals should be drawn this iteration.
func (s *State) Visible() bool {
	return !s.Blinking() || s.phaseOn
}

// PhaseOn returns the current blink sub-phase.
func (s *State) PhaseOn() bool {
	return s.phaseOn
}

// Remaining returns the signed number of seconds left.
func (s *State) Remaining() int64 {
	return s.remaining
}

// Text returns the display text for the current remaining time.
func (s *State) Text() string {
	return Format(s.remaining, s.opts.LeadingZeros)
}
