package tuitest

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("pty harness needs a unix shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}
	return sh
}

func TestRunRecordsOutput(t *testing.T) {
	sh := requireShell(t)

	rec, err := Run(context.Background(), Config{
		Command: []string{sh, "-c", `printf '\033[?1049h\033[3;2Hready\033[?1049l'`},
		Width:   20,
		Height:  5,
	})
	require.NoError(t, err)

	s := rec.Screen()
	assert.Equal(t, 20, s.Width)
	assert.False(t, s.AltScreen())
	assert.Equal(t, "\n\n ready", s.AltSnapshot)
}

func TestRunScriptsInput(t *testing.T) {
	sh := requireShell(t)

	rec, err := Run(context.Background(), Config{
		Command: []string{sh, "-c", `printf 'name? '; read answer; printf 'hi %s' "$answer"`},
		Steps: []Step{
			{WaitFor: "name?"},
			{Input: []byte("bob\r")},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, rec.Screen().String(), "hi bob")
}

func TestRunSignal(t *testing.T) {
	sh := requireShell(t)

	rec, err := Run(context.Background(), Config{
		Command: []string{sh, "-c", `trap 'printf bye; exit 3' TERM; printf up; while :; do sleep 0.05; done`},
		Steps: []Step{
			{WaitFor: "up"},
			{Signal: SIGTERM},
		},
		AllowedExitCodes: []int{3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ExitCode)
	assert.Contains(t, rec.Screen().String(), "upbye")
}

func TestRunRejectsUnexpectedExit(t *testing.T) {
	sh := requireShell(t)

	_, err := Run(context.Background(), Config{Command: []string{sh, "-c", "exit 7"}})
	assert.Error(t, err)
}

func TestRunTimesOut(t *testing.T) {
	sh := requireShell(t)

	_, err := Run(context.Background(), Config{
		Command: []string{sh, "-c", "sleep 5"},
		Timeout: 200 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestRunRequiresCommand(t *testing.T) {
	_, err := Run(context.Background(), Config{})
	assert.Error(t, err)
}
