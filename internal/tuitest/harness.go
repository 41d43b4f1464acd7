// Package tuitest runs a full-screen program inside a pseudo terminal,
// scripts key presses and signals against it, and replays what it drew.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	defaultTimeout = 10 * time.Second
	pollInterval   = 10 * time.Millisecond
)

// Step is one scripted interaction. The delay runs first, then the wait,
// then the input is written and the signal delivered.
type Step struct {
	Delay time.Duration
	// WaitFor blocks until the replayed screen contains the text.
	WaitFor string
	Input   []byte
	Signal  os.Signal
}

// Config describes the program to run and the terminal it gets.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
}

// Recording is everything the program wrote to the terminal.
type Recording struct {
	Raw      []byte
	Width    int
	Height   int
	ExitCode int
	Duration time.Duration
}

// Screen replays the recording on a virtual screen of the recorded size.
func (r *Recording) Screen() *Screen {
	return Replay(r.Raw, r.Width, r.Height)
}

// capture collects PTY output for concurrent readers.
type capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *capture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.buf.Bytes()...)
}

// Run starts the command in a PTY, plays the steps and waits for it to exit.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width := cfg.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := cfg.Height
	if height <= 0 {
		height = defaultHeight
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	allowedCodes := map[int]struct{}{0: {}}
	for _, code := range cfg.AllowedExitCodes {
		allowedCodes[code] = struct{}{}
	}

	winsize := &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
	ptmx, err := pty.StartWithSize(cmd, winsize)
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	output := &capture{}
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				responder.Process(chunk)
				_, _ = output.Write(chunk)
			}
			if readErr != nil {
				// EIO once the child closes its side.
				return
			}
		}
	}()

	start := time.Now()
	for i, step := range cfg.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: step %d: %w", i, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.WaitFor != "" {
			if err := waitForText(ctx, output, width, height, step.WaitFor); err != nil {
				return nil, fmt.Errorf("tuitest: step %d: %w", i, err)
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: step %d: write input: %w", i, err)
			}
		}
		if step.Signal != nil {
			if err := cmd.Process.Signal(step.Signal); err != nil {
				return nil, fmt.Errorf("tuitest: step %d: signal %v: %w", i, step.Signal, err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	exitCode := 0
	select {
	case err := <-waitErr:
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, fmt.Errorf("tuitest: wait: %w", err)
			}
			exitCode = exitErr.ExitCode()
			if _, ok := allowedCodes[exitCode]; !ok {
				return nil, fmt.Errorf("tuitest: program exited with error: %w\n%s", err, Replay(output.Bytes(), width, height))
			}
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY lets the reader goroutine finish draining.
	_ = ptmx.Close()
	<-copyDone

	return &Recording{
		Raw:      output.Bytes(),
		Width:    width,
		Height:   height,
		ExitCode: exitCode,
		Duration: time.Since(start),
	}, nil
}

func waitForText(ctx context.Context, output *capture, width, height int, text string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if strings.Contains(Replay(output.Bytes(), width, height).String(), text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, ctx.Err())
		case <-ticker.C:
		}
	}
}

func buildEnv(extra []string) []string {
	env := os.Environ()
	env = append(env, extra...)
	termSet := false
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			termSet = true
			break
		}
	}
	if !termSet {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

var (
	// KeyCtrlC is the byte a terminal in raw mode sends for Ctrl+C.
	KeyCtrlC = []byte{3}
	// KeyEsc is a lone Escape press.
	KeyEsc = []byte{27}
	// KeyUp is the cursor-up sequence, which should be ignored.
	KeyUp = []byte("\x1b[A")

	// SIGTERM is re-exported so test files need not import syscall.
	SIGTERM os.Signal = syscall.SIGTERM
)
