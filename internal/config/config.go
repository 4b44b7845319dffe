// Package config loads runtime settings from the environment and an optional
// .env file. Command-line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. MATRIX_CADENCE.
const Prefix = "MATRIX"

// Mission-log backends.
const (
	BackendFile     = "file"
	BackendSupabase = "supabase"
	BackendNone     = "none"
)

// Config holds every tunable of both binaries.
type Config struct {
	Cadence   time.Duration `envconfig:"CADENCE" default:"75ms"`
	RainFrame time.Duration `envconfig:"RAIN_FRAME" default:"50ms"`
	Rain      bool          `envconfig:"RAIN" default:"true"`

	Speech    bool   `envconfig:"SPEECH" default:"true"`
	VoiceName string `envconfig:"VOICE" default:"Google US English"`
	Bell      bool   `envconfig:"BELL" default:"true"`

	// TickBell rings the bell for typed characters at most once per interval.
	// Zero keeps ticks silent.
	TickBell time.Duration `envconfig:"TICK_BELL"`

	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MissionLogConfig
	SSHConfig
}

// MissionLogConfig selects where finished runs are recorded.
type MissionLogConfig struct {
	Backend  string        `envconfig:"MISSION_LOG" default:"file"`
	Path     string        `envconfig:"MISSION_LOG_PATH"`
	Attempts int           `envconfig:"MISSION_LOG_ATTEMPTS" default:"3"`
	Backoff  time.Duration `envconfig:"MISSION_LOG_BACKOFF" default:"1s"`
	// envconfig falls back to the unprefixed tag, so plain SUPABASE_URL and
	// SUPABASE_KEY work as well.
	SupabaseURL   string `envconfig:"SUPABASE_URL"`
	SupabaseKey   string `envconfig:"SUPABASE_KEY"`
	SupabaseTable string `envconfig:"SUPABASE_TABLE" default:"mission_log"`
}

// SSHConfig configures cmd/server.
type SSHConfig struct {
	Port    int    `envconfig:"SSH_PORT" default:"2222"`
	HostKey string `envconfig:"SSH_HOST_KEY" default:"server_host_key"`
}

// Load reads envFiles (default ".env") if present, then the environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.Cadence <= 0 {
		return fmt.Errorf("cadence must be positive, got %s", c.Cadence)
	}
	if c.RainFrame <= 0 {
		return fmt.Errorf("rain frame interval must be positive, got %s", c.RainFrame)
	}
	if c.TickBell < 0 {
		return fmt.Errorf("tick bell interval must not be negative, got %s", c.TickBell)
	}
	switch c.Backend {
	case BackendFile, BackendNone:
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("supabase mission log needs SUPABASE_URL and SUPABASE_KEY")
		}
	default:
		return fmt.Errorf("unknown mission log backend %q", c.Backend)
	}
	if c.Attempts <= 0 {
		return fmt.Errorf("mission log attempts must be positive, got %d", c.Attempts)
	}
	return nil
}
