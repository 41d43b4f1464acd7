package countdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTickStopsAtZero(t *testing.T) {
	s := New(Options{InitialSeconds: 5}, epoch)
	for i := 0; i < 5; i++ {
		require.True(t, s.Tick(epoch))
	}
	require.Equal(t, int64(0), s.Remaining())
	require.True(t, s.Blinking())

	for i := 0; i < 3; i++ {
		assert.False(t, s.Tick(epoch))
	}
	assert.Equal(t, int64(0), s.Remaining())
	assert.Equal(t, "00", s.Text())
}

func TestTickRunsNegative(t *testing.T) {
	s := New(Options{AllowNegative: true, LeadingZeros: true}, epoch)
	for i := 0; i < 3; i++ {
		s.Tick(epoch)
	}
	assert.Equal(t, int64(-3), s.Remaining())
	assert.Equal(t, "-00:00:03", s.Text())
	assert.False(t, s.Blinking())
	assert.True(t, s.Visible())
}

func TestBlinkTogglesOncePerPeriod(t *testing.T) {
	s := New(Options{InitialSeconds: 0, BlinkRate: 500 * time.Millisecond}, epoch)
	require.True(t, s.Blinking())
	require.True(t, s.Visible())

	assert.False(t, s.Blink(epoch.Add(100*time.Millisecond)))
	assert.False(t, s.Blink(epoch.Add(499*time.Millisecond)))
	assert.True(t, s.Blink(epoch.Add(500*time.Millisecond)))
	assert.False(t, s.Visible())

	// Polling again inside the next period does not flip it back.
	assert.False(t, s.Blink(epoch.Add(600*time.Millisecond)))
	assert.False(t, s.Blink(epoch.Add(999*time.Millisecond)))
	assert.False(t, s.Visible())

	assert.True(t, s.Blink(epoch.Add(1000*time.Millisecond)))
	assert.True(t, s.Visible())
}

func TestBlinkPeriodStartsWhenTimeRunsOut(t *testing.T) {
	s := New(Options{InitialSeconds: 1, BlinkRate: 500 * time.Millisecond}, epoch)
	assert.False(t, s.Blink(epoch.Add(800*time.Millisecond)))

	at := epoch.Add(time.Second)
	require.True(t, s.Tick(at))
	assert.False(t, s.Blink(at))
	assert.True(t, s.Visible())
	assert.False(t, s.Blink(at.Add(499*time.Millisecond)))
	assert.True(t, s.Blink(at.Add(500*time.Millisecond)))
}

func TestBlinkNotEarlyAfterLatePoll(t *testing.T) {
	s := New(Options{InitialSeconds: 1, BlinkRate: 500 * time.Millisecond}, epoch)
	assert.False(t, s.Blink(epoch.Add(900*time.Millisecond)))

	zero := epoch.Add(time.Second)
	require.True(t, s.Tick(zero))
	assert.False(t, s.Blink(zero.Add(400*time.Millisecond)))
	assert.True(t, s.Visible())
	assert.True(t, s.Blink(zero.Add(500*time.Millisecond)))
	assert.False(t, s.Visible())
}

func TestTickAfterZeroKeepsBlinkPeriod(t *testing.T) {
	s := New(Options{InitialSeconds: 0, BlinkRate: 500 * time.Millisecond}, epoch)
	require.True(t, s.Blink(epoch.Add(500*time.Millisecond)))
	require.False(t, s.Visible())

	// A stopped countdown ignores further ticks and keeps its period.
	assert.False(t, s.Tick(epoch.Add(600*time.Millisecond)))
	assert.False(t, s.Visible())
	assert.True(t, s.Blink(epoch.Add(1000*time.Millisecond)))
}

func TestBlinkIgnoredWhileCounting(t *testing.T) {
	s := New(Options{InitialSeconds: 10, BlinkRate: time.Millisecond}, epoch)
	for i := 1; i < 10; i++ {
		assert.False(t, s.Blink(epoch.Add(time.Duration(i)*time.Second)))
		assert.True(t, s.Visible())
	}
}

func TestDefaultBlinkRate(t *testing.T) {
	s := New(Options{}, epoch)
	assert.False(t, s.Blink(epoch.Add(DefaultBlinkRate-time.Millisecond)))
	assert.True(t, s.Blink(epoch.Add(DefaultBlinkRate)))
}
