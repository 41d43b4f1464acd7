// Package logging is a small level filter over the standard logger. The
// terminal belongs to the painter, so output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents logging severity.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LevelWarn))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lmsgprefix)
	log.SetOutput(io.Discard)
}

// Setup sends log output to path, or discards it when path is empty, and
// applies the -v count. The returned closer releases the log file.
func Setup(path string, verbosity int) (io.Closer, error) {
	SetVerbosity(verbosity)
	if path == "" {
		log.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	f, err := tea.LogToFile(path, "afk")
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetVerbosity maps a count of -v flags to a level (0 = warn, 3+ = trace).
func SetVerbosity(count int) {
	switch {
	case count <= 0:
		SetLevel(LevelWarn)
	case count == 1:
		SetLevel(LevelInfo)
	case count == 2:
		SetLevel(LevelDebug)
	default:
		SetLevel(LevelTrace)
	}
}

// SetLevel sets the most verbose level that is written.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	return Level(currentLevel.Load())
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	return l <= CurrentLevel()
}

func logf(l Level, prefix, format string, args ...any) {
	if !Enabled(l) {
		return
	}
	log.Printf("[%s] %s", strings.ToUpper(prefix), fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	logf(LevelError, "err", format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, "warn", format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, "info", format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, "dbg", format, args...)
}

func Tracef(format string, args ...any) {
	logf(LevelTrace, "trc", format, args...)
}
