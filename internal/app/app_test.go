package app

import (
	"path/filepath"
	"testing"
	"time"

	"matrix-terminal/internal/config"
	"matrix-terminal/internal/cue"
	"matrix-terminal/internal/missionlog"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Cadence:   10 * time.Millisecond,
		RainFrame: 20 * time.Millisecond,
		Rain:      true,
		Bell:      true,
		LogLevel:  "info",
		MissionLogConfig: config.MissionLogConfig{
			Backend:  config.BackendFile,
			Path:     filepath.Join(t.TempDir(), "log.jsonl"),
			Attempts: 2,
			Backoff:  time.Millisecond,
		},
	}
}

func TestSinkSelection(t *testing.T) {
	cfg := testConfig(t)

	s, err := Sink(cfg.MissionLogConfig)
	require.NoError(t, err)
	assert.IsType(t, &missionlog.FileSink{}, s)

	cfg.Backend = config.BackendNone
	s, err = Sink(cfg.MissionLogConfig)
	require.NoError(t, err)
	assert.IsType(t, missionlog.Discard{}, s)

	cfg.Backend = config.BackendSupabase
	_, err = Sink(cfg.MissionLogConfig)
	assert.Error(t, err, "supabase without credentials")

	cfg.Backend = "s3"
	_, err = Sink(cfg.MissionLogConfig)
	assert.Error(t, err)
}

func TestGameOptions(t *testing.T) {
	rt, err := New(testConfig(t))
	require.NoError(t, err)
	defer rt.Close()

	ss := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, ss.Init())
	defer ss.Fini()

	opts := rt.GameOptions(ss, false)
	assert.Equal(t, 10*time.Millisecond, opts.Cadence)
	assert.Equal(t, 20*time.Millisecond, opts.RainFrame)
	assert.False(t, opts.NoRain)
	assert.NotNil(t, opts.Cue)
	assert.Nil(t, opts.Voice, "speech disabled for this session")
	assert.Same(t, rt.Recorder, opts.Recorder)
	bell, ok := opts.Cue.(*cue.Bell)
	require.True(t, ok)
	assert.Zero(t, bell.TickEvery, "ticks silent by default")

	rt.Config.TickBell = 200 * time.Millisecond
	opts = rt.GameOptions(ss, false)
	assert.Equal(t, 200*time.Millisecond, opts.Cue.(*cue.Bell).TickEvery)

	rt.Config.Bell = false
	rt.Config.Rain = false
	opts = rt.GameOptions(ss, false)
	assert.Nil(t, opts.Cue)
	assert.True(t, opts.NoRain)
}
