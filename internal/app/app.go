// Package app assembles the collaborators shared by the local and SSH
// binaries from a loaded configuration.
package app

import (
	"fmt"
	"math/rand"
	"time"

	"matrix-terminal/internal/config"
	"matrix-terminal/internal/cue"
	"matrix-terminal/internal/game"
	"matrix-terminal/internal/logging"
	"matrix-terminal/internal/missionlog"
	"matrix-terminal/internal/narrate"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Runtime owns the process-wide logger and mission-log pipeline.
type Runtime struct {
	Config   *config.Config
	Logger   *zap.Logger
	Recorder *missionlog.Retrying
}

// New builds the logger and the configured mission-log sink.
func New(cfg *config.Config) (*Runtime, error) {
	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	sink, err := Sink(cfg.MissionLogConfig)
	if err != nil {
		return nil, err
	}
	logger.Info("mission log configured", zap.String("backend", cfg.Backend))
	rec := missionlog.NewRetrying(sink, logger.Named("missionlog"),
		missionlog.WithAttempts(cfg.Attempts),
		missionlog.WithBackoff(cfg.Backoff),
	)
	return &Runtime{Config: cfg, Logger: logger, Recorder: rec}, nil
}

// Sink returns the backend named by cfg.Backend.
func Sink(cfg config.MissionLogConfig) (missionlog.Sink, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return missionlog.NewFileSink(cfg.Path)
	case config.BackendSupabase:
		return missionlog.NewSupabaseSink(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable)
	case config.BackendNone:
		return missionlog.Discard{}, nil
	}
	return nil, fmt.Errorf("unknown mission log backend %q", cfg.Backend)
}

// GameOptions wires one session on screen. Speech uses the host's
// synthesizer, so remote sessions pass speech=false.
func (rt *Runtime) GameOptions(screen tcell.Screen, speech bool) game.Options {
	cfg := rt.Config
	opts := game.Options{
		Cadence:   cfg.Cadence,
		RainFrame: cfg.RainFrame,
		NoRain:    !cfg.Rain,
		Recorder:  rt.Recorder,
		Logger:    rt.Logger.Named("game"),
		Rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if cfg.Bell {
		bell := cue.NewBell(screen)
		bell.TickEvery = cfg.TickBell
		opts.Cue = bell
	}
	if speech && cfg.Speech {
		if synth := narrate.LookupSynthesizer(); synth != nil {
			rt.Logger.Info("speech enabled", zap.String("engine", synth.Engine()))
			opts.Voice = narrate.NewVoice(synth, cfg.VoiceName, rt.Logger.Named("voice"))
		} else {
			rt.Logger.Info("no speech synthesizer found")
		}
	}
	return opts
}

// Close waits for pending mission-log deliveries and flushes the logger.
func (rt *Runtime) Close() {
	rt.Recorder.Wait()
	_ = rt.Logger.Sync()
}
