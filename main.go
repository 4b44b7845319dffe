// matrix-terminal plays the rescue simulation in the local terminal.
//
//	go build -o matrix-terminal .
//	./matrix-terminal [--cadence 75ms] [--no-rain] [--no-speech] [--voice NAME]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"matrix-terminal/internal/app"
	"matrix-terminal/internal/config"
	"matrix-terminal/internal/game"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	envFile  string
	noRain   bool
	noSpeech bool
	noBell   bool
	voice    string
	logFile  string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "matrix-terminal",
		Short:         "Guide Neo out of the Matrix from an operator terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.envFile)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, f)
			return play(cmd.Context(), cfg)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.envFile, "env", ".env", "optional dotenv file")
	fs.Duration("cadence", 0, "delay between revealed characters (default from MATRIX_CADENCE)")
	fs.BoolVar(&f.noRain, "no-rain", false, "disable the digital rain background")
	fs.BoolVar(&f.noSpeech, "no-speech", false, "disable the spoken narrator")
	fs.BoolVar(&f.noBell, "no-bell", false, "disable terminal bell cues")
	fs.StringVar(&f.voice, "voice", "", "preferred synthesizer voice name")
	fs.StringVar(&f.logFile, "log-file", "", "write structured logs to this file")
	return cmd
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	fs := cmd.Flags()
	if fs.Changed("cadence") {
		if d, err := fs.GetDuration("cadence"); err == nil && d > 0 {
			cfg.Cadence = d
		}
	}
	if f.noRain {
		cfg.Rain = false
	}
	if f.noSpeech {
		cfg.Speech = false
	}
	if f.noBell {
		cfg.Bell = false
	}
	if f.voice != "" {
		cfg.VoiceName = f.voice
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
}

func play(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	g := game.New(screen, rt.GameOptions(screen, true))
	g.Run(ctx)
	rt.Logger.Info("operator disconnected", zap.Int("stage", int(g.Stage())))
	return nil
}
