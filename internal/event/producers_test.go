package event

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	reads chan []tea.KeyMsg
}

func newScriptedSource(reads ...[]tea.KeyMsg) *scriptedSource {
	s := &scriptedSource{reads: make(chan []tea.KeyMsg, len(reads))}
	for _, r := range reads {
		s.reads <- r
	}
	close(s.reads)
	return s
}

func (s *scriptedSource) ReadKeys() ([]tea.KeyMsg, error) {
	keys, ok := <-s.reads
	if !ok {
		return nil, io.EOF
	}
	return keys, nil
}

func drain(q *Queue) []Kind {
	var kinds []Kind
	for {
		ev, ok := q.TryRecv()
		if !ok {
			return kinds
		}
		kinds = append(kinds, ev.Kind)
	}
}

func TestListenSendsQuitForBindings(t *testing.T) {
	src := newScriptedSource(
		[]tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune{'x'}}},
		[]tea.KeyMsg{{Type: tea.KeyEsc}},
		[]tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyCtrlC}},
	)
	q := NewQueue()

	err := Listen(context.Background(), src, DefaultKeyMap(), q)
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, []Kind{Quit, Quit}, drain(q))
}

func TestListenIgnoresClosedQueue(t *testing.T) {
	src := newScriptedSource([]tea.KeyMsg{{Type: tea.KeyEsc}}, []tea.KeyMsg{{Type: tea.KeyEsc}})
	q := NewQueue()
	q.Close()

	err := Listen(context.Background(), src, DefaultKeyMap(), q)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, q.Len())
}

func TestListenStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Listen(ctx, newScriptedSource(), DefaultKeyMap(), NewQueue())
	assert.NoError(t, err)
}

func TestRunTickerEmitsTicks(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunTicker(ctx, q, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return q.Len() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	for _, k := range drain(q) {
		assert.Equal(t, Tick, k)
	}
}

func TestRunTickerStopsWhenQueueClosed(t *testing.T) {
	q := NewQueue()
	q.Close()
	done := make(chan struct{})
	go func() {
		RunTicker(context.Background(), q, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker kept running after close")
	}
}

func TestDispatcherFansIn(t *testing.T) {
	src := newScriptedSource([]tea.KeyMsg{{Type: tea.KeyCtrlC}})
	d := NewDispatcher(src, DefaultKeyMap(), 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	seen := map[Kind]bool{}
	require.Eventually(t, func() bool {
		for {
			ev, ok := d.Events().TryRecv()
			if !ok {
				break
			}
			seen[ev.Kind] = true
		}
		return seen[Tick] && seen[Quit]
	}, time.Second, time.Millisecond)

	d.Stop()
	assert.False(t, d.Events().Send(Event{Kind: Tick}))
}
