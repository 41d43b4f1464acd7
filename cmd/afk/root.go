package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/togglebyte/afk/internal/app"
	"github.com/togglebyte/afk/internal/config"
	"github.com/togglebyte/afk/internal/font"
	"github.com/togglebyte/afk/internal/logging"
	"github.com/togglebyte/afk/internal/term"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "afk [flags] [caption]",
		Short: "Big-digit countdown for the terminal",
		Long: `afk fills the terminal with a countdown drawn in large FIGlet digits,
with an optional caption above it. Once time is up the digits blink until
Esc or Ctrl+C is pressed; with --keep the count carries on below zero.

Every flag can also be set through the environment, e.g. AFK_BLINK_RATE=1s.`,
		Example: `  afk -m 5 "back in five"
  afk -h 1 -m 30 -c "#ff8800" --bold
  afk -k -f lunch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, args)
			if err != nil {
				return err
			}
			if cfg.Idle() {
				return cmd.Help()
			}
			return run(cmd.Context(), cfg)
		},
	}
	// -h is hours, so help only gets the long form.
	cmd.Flags().Bool("help", false, "help for afk")
	if err := config.BindFlags(cmd.Flags(), v); err != nil {
		panic(err)
	}
	return cmd
}

func run(ctx context.Context, cfg config.TimerConfig) error {
	logs, err := logging.Setup(cfg.LogFile, cfg.Verbosity)
	if err != nil {
		return err
	}
	defer logs.Close()

	numerals, err := font.NewFiglet(cfg.Font)
	if err != nil {
		return err
	}
	t, err := openTerminal(cfg.Backend)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, t, numerals)
	if err != nil {
		return err
	}
	logging.Infof("[main] backend=%s font=%s seconds=%d", cfg.Backend, numerals.Name(), cfg.InitialSeconds)
	return a.Run(ctx)
}

func openTerminal(backend string) (term.Terminal, error) {
	switch backend {
	case term.BackendTcell:
		t, err := term.OpenTcell()
		if err != nil {
			return nil, err
		}
		return t, nil
	case term.BackendANSI:
		t, err := term.NewANSI(os.Stdin, os.Stdout)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrInvalidBackend, backend)
	}
}
