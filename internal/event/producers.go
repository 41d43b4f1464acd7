package event

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/togglebyte/afk/internal/logging"
)

// DefaultTickInterval is the countdown cadence.
const DefaultTickInterval = time.Second

// KeySource blocks until at least one key press is available. Implementations
// return an error once the underlying input is closed or cancelled.
type KeySource interface {
	ReadKeys() ([]tea.KeyMsg, error)
}

// RunTicker sends a Tick every interval until ctx is done or the queue is
// closed. Late ticks are not caught up.
func RunTicker(ctx context.Context, q *Queue, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !q.Send(Event{Kind: Tick, At: now}) {
				logging.Tracef("[ticker] queue closed, stopping")
				return
			}
		}
	}
}

// Listen reads keys from src and sends Quit whenever a quit binding is
// pressed. It keeps listening after a Quit so that repeated presses are
// harmless, and returns when src fails or ctx is done.
func Listen(ctx context.Context, src KeySource, keys KeyMap, q *Queue) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		msgs, err := src.ReadKeys()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, msg := range msgs {
			if !key.Matches(msg, keys.Quit) {
				logging.Tracef("[input] ignoring key %q", msg.String())
				continue
			}
			logging.Debugf("[input] %s pressed", msg.String())
			q.Send(Event{Kind: Quit, At: time.Now()})
		}
	}
}

// Dispatcher owns the tick generator and the input listener and funnels both
// into one Queue.
type Dispatcher struct {
	queue    *Queue
	keys     KeyMap
	interval time.Duration
	src      KeySource
}

// NewDispatcher prepares producers reading from src. A nil src disables the
// input listener.
func NewDispatcher(src KeySource, keys KeyMap, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		queue:    NewQueue(),
		keys:     keys,
		interval: interval,
		src:      src,
	}
}

// Events returns the queue the producers send into.
func (d *Dispatcher) Events() *Queue {
	return d.queue
}

// Start launches both producers. They stop when ctx is done or the queue is
// closed; a listener blocked in ReadKeys is only released when its source is
// closed.
func (d *Dispatcher) Start(ctx context.Context) {
	go RunTicker(ctx, d.queue, d.interval)
	if d.src == nil {
		return
	}
	go func() {
		if err := Listen(ctx, d.src, d.keys, d.queue); err != nil {
			logging.Debugf("[input] listener stopped: %v", err)
		}
	}()
}

// Stop closes the queue; later sends are dropped.
func (d *Dispatcher) Stop() {
	d.queue.Close()
}
