// Package config turns command-line flags and AFK_* environment variables into
// an immutable TimerConfig.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/togglebyte/afk/internal/countdown"
	"github.com/togglebyte/afk/internal/font"
	"github.com/togglebyte/afk/internal/paint"
	"github.com/togglebyte/afk/internal/term"
)

var (
	// ErrMultipleCaptions is returned for more than one positional argument.
	ErrMultipleCaptions = errors.New("config: only one caption may be given")
	// ErrNegativeDuration is returned when -h, -m or -s is below zero.
	ErrNegativeDuration = errors.New("config: durations must not be negative")
	// ErrDurationTooLarge is returned when the total does not fit in int64 seconds.
	ErrDurationTooLarge = errors.New("config: duration too large")
	// ErrInvalidColor is returned for a colour that is neither hex nor a palette index.
	ErrInvalidColor = errors.New("config: invalid colour")
	// ErrInvalidBlinkRate is returned for a zero or negative blink rate.
	ErrInvalidBlinkRate = errors.New("config: blink rate must be positive")
	// ErrInvalidBackend is returned for a backend other than ansi or tcell.
	ErrInvalidBackend = errors.New("config: unknown backend")
)

// EnvPrefix is prepended to every environment variable, so --blink-rate is
// also read from AFK_BLINK_RATE.
const EnvPrefix = "AFK"

// Flag and viper keys.
const (
	KeyHours        = "hours"
	KeyMinutes      = "minutes"
	KeySeconds      = "seconds"
	KeyKeep         = "keep"
	KeyColor        = "color"
	KeyBold         = "bold"
	KeyLeadingZeros = "leading-zeros"
	KeyBlinkRate    = "blink-rate"
	KeyCaptionFont  = "caption-font"
	KeyFont         = "font"
	KeyBackend      = "backend"
	KeyLogFile      = "log-file"
	KeyVerbose      = "verbose"
)

// TimerConfig is everything the countdown needs. It is built once by Load
// and never modified afterwards.
type TimerConfig struct {
	InitialSeconds int64
	AllowNegative  bool
	Caption        string
	LeadingZeros   bool
	BlinkRate      time.Duration
	CaptionFont    bool
	Font           string
	Backend        string
	Style          paint.Style

	LogFile   string
	Verbosity int
}

// BindFlags registers the countdown flags on flags and binds them, plus the
// environment, to v.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.Int64P(KeyHours, "h", 0, "hours to count down")
	flags.Int64P(KeyMinutes, "m", 0, "minutes to count down")
	flags.Int64P(KeySeconds, "s", 0, "seconds to count down")
	flags.BoolP(KeyKeep, "k", false, "keep counting below zero instead of blinking")
	flags.StringP(KeyColor, "c", "", "colour as #RRGGBB, #RGB or an ANSI index 0-255")
	flags.Bool(KeyBold, false, "draw in bold")
	flags.BoolP(KeyLeadingZeros, "z", false, "always show hours and minutes")
	flags.DurationP(KeyBlinkRate, "b", countdown.DefaultBlinkRate, "blink period once time is up")
	flags.BoolP(KeyCaptionFont, "f", false, "draw the caption with the numeral font")
	flags.String(KeyFont, font.DefaultFont, "FIGlet font name or path to a .flf file")
	flags.String(KeyBackend, term.BackendANSI, "terminal backend: ansi or tcell")
	flags.String(KeyLogFile, "", "append debug logs to this file")
	flags.CountP(KeyVerbose, "v", "increase log verbosity (repeatable)")

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("config: bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// Load builds a validated TimerConfig from v and the positional arguments.
func Load(v *viper.Viper, args []string) (TimerConfig, error) {
	if len(args) > 1 {
		return TimerConfig{}, fmt.Errorf("%w: got %d", ErrMultipleCaptions, len(args))
	}

	hours, minutes, seconds := v.GetInt64(KeyHours), v.GetInt64(KeyMinutes), v.GetInt64(KeySeconds)
	total, err := totalSeconds(hours, minutes, seconds)
	if err != nil {
		return TimerConfig{}, err
	}

	fg, err := parseColor(v.GetString(KeyColor))
	if err != nil {
		return TimerConfig{}, err
	}

	cfg := TimerConfig{
		InitialSeconds: total,
		AllowNegative:  v.GetBool(KeyKeep),
		LeadingZeros:   v.GetBool(KeyLeadingZeros),
		BlinkRate:      v.GetDuration(KeyBlinkRate),
		CaptionFont:    v.GetBool(KeyCaptionFont),
		Font:           v.GetString(KeyFont),
		Backend:        strings.ToLower(v.GetString(KeyBackend)),
		Style:          paint.Style{Foreground: fg, Bold: v.GetBool(KeyBold)},
		LogFile:        v.GetString(KeyLogFile),
		Verbosity:      v.GetInt(KeyVerbose),
	}
	if len(args) == 1 {
		cfg.Caption = args[0]
	}
	if cfg.Font == "" {
		cfg.Font = font.DefaultFont
	}
	if cfg.Backend == "" {
		cfg.Backend = term.BackendANSI
	}
	if err := cfg.Validate(); err != nil {
		return TimerConfig{}, err
	}
	return cfg, nil
}

// totalSeconds sums the duration flags, rejecting negative parts and totals
// that overflow int64.
func totalSeconds(hours, minutes, seconds int64) (int64, error) {
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, ErrNegativeDuration
	}
	if hours > math.MaxInt64/3600 || minutes > math.MaxInt64/60 {
		return 0, fmt.Errorf("%w: %dh %dm", ErrDurationTooLarge, hours, minutes)
	}
	total := hours * 3600
	for _, part := range []int64{minutes * 60, seconds} {
		if total > math.MaxInt64-part {
			return 0, fmt.Errorf("%w: %dh %dm %ds", ErrDurationTooLarge, hours, minutes, seconds)
		}
		total += part
	}
	return total, nil
}

// Validate checks the fields Load cannot fix up on its own.
func (c TimerConfig) Validate() error {
	if c.InitialSeconds < 0 {
		return ErrNegativeDuration
	}
	if c.BlinkRate <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBlinkRate, c.BlinkRate)
	}
	switch c.Backend {
	case term.BackendANSI, term.BackendTcell:
	default:
		return fmt.Errorf("%w %q", ErrInvalidBackend, c.Backend)
	}
	if _, err := parseColor(c.Style.Foreground); err != nil {
		return err
	}
	return nil
}

// Idle reports whether nothing was asked for: no duration, no caption and no
// open-ended count. The command prints its usage in that case.
func (c TimerConfig) Idle() bool {
	return c.InitialSeconds == 0 && c.Caption == "" && !c.AllowNegative
}

// Countdown returns the state machine options for c.
func (c TimerConfig) Countdown() countdown.Options {
	return countdown.Options{
		InitialSeconds: c.InitialSeconds,
		AllowNegative:  c.AllowNegative,
		LeadingZeros:   c.LeadingZeros,
		BlinkRate:      c.BlinkRate,
	}
}

// parseColor normalises a hex colour to #rrggbb. Decimal palette indexes are
// passed through unchanged.
func parseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", fmt.Errorf("%w %q: palette index out of range", ErrInvalidColor, s)
		}
		return strconv.Itoa(n), nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}
