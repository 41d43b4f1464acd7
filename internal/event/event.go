// Package event merges asynchronous environment signals (key presses and the
// one second tick) into a single queue consumed by the render loop.
package event

import "time"

// Kind tags an Event.
type Kind int

const (
	// Tick asks the countdown to advance by one second.
	Tick Kind = iota
	// Quit asks the loop to terminate.
	Quit
)

func (k Kind) String() string {
	switch k {
	case Tick:
		return "tick"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is a single message from a producer.
type Event struct {
	Kind Kind
	At   time.Time
}
