// Package config loads session configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// Config is the static session configuration
// Speed, MaxShootAngle and the grid layout are never mutated at runtime
type Config struct {
	// Network
	Role    string `env:"BREAKOUT_ROLE" envDefault:"local"` // local, host, server, client, peer
	Address string `env:"BREAKOUT_ADDR" envDefault:":7777"`

	// Grid
	Columns     int     `env:"BREAKOUT_COLUMNS" envDefault:"10"`
	Rows        int     `env:"BREAKOUT_ROWS" envDefault:"5"`
	CellWidth   float64 `env:"BREAKOUT_CELL_WIDTH" envDefault:"3"`
	CellHeight  float64 `env:"BREAKOUT_CELL_HEIGHT" envDefault:"1"`
	OffsetX     float64 `env:"BREAKOUT_OFFSET_X" envDefault:"1"`
	OffsetY     float64 `env:"BREAKOUT_OFFSET_Y" envDefault:"1"`
	GradientTop string  `env:"BREAKOUT_GRADIENT_TOP" envDefault:"#ff4040"`
	GradientEnd string  `env:"BREAKOUT_GRADIENT_END" envDefault:"#4060ff"`

	// Scoring
	BlockPoints      float64 `env:"BREAKOUT_BLOCK_POINTS" envDefault:"100"`
	PointsMultiplier float64 `env:"BREAKOUT_POINTS_MULTIPLIER" envDefault:"1"`

	// Ball
	BallSpeed         float64 `env:"BREAKOUT_BALL_SPEED" envDefault:"18"`
	BallRadius        float64 `env:"BREAKOUT_BALL_RADIUS" envDefault:"0.4"`
	MaxShootAngle     float64 `env:"BREAKOUT_MAX_SHOOT_ANGLE" envDefault:"45"` // degrees
	StrictLaunchAngle bool    `env:"BREAKOUT_STRICT_LAUNCH_ANGLE" envDefault:"false"`

	// Paddle
	PaddleSpeed     float64 `env:"BREAKOUT_PADDLE_SPEED" envDefault:"24"`
	PaddleHalfWidth float64 `env:"BREAKOUT_PADDLE_HALF_WIDTH" envDefault:"3"`

	// Arena
	ArenaWidth  float64 `env:"BREAKOUT_ARENA_WIDTH" envDefault:"60"`
	ArenaHeight float64 `env:"BREAKOUT_ARENA_HEIGHT" envDefault:"32"`

	// Replication
	DestroyTimeout time.Duration `env:"BREAKOUT_DESTROY_TIMEOUT" envDefault:"2s"`

	// Presentation
	AudioEnabled bool    `env:"BREAKOUT_AUDIO" envDefault:"true"`
	Volume       float64 `env:"BREAKOUT_VOLUME" envDefault:"0.6"`

	// Persistence, empty disables session records
	RecordsPath string `env:"BREAKOUT_RECORDS"`

	LogLevel string `env:"BREAKOUT_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"BREAKOUT_LOG_FILE" envDefault:"breakout.log"`

	// Seed for launch angles and clip selection, 0 picks a time-based seed
	Seed uint64 `env:"BREAKOUT_SEED" envDefault:"0"`
}

// Default returns the built-in configuration without reading the environment
func Default() Config {
	return Config{
		Role:             "local",
		Address:          ":7777",
		Columns:          parameter.DefaultColumns,
		Rows:             parameter.DefaultRows,
		CellWidth:        parameter.DefaultCellWidth,
		CellHeight:       parameter.DefaultCellHeight,
		OffsetX:          parameter.DefaultOffsetX,
		OffsetY:          parameter.DefaultOffsetY,
		GradientTop:      "#ff4040",
		GradientEnd:      "#4060ff",
		BlockPoints:      parameter.DefaultBlockPoints,
		PointsMultiplier: parameter.DefaultPointsMultiplier,
		BallSpeed:        parameter.DefaultBallSpeed,
		BallRadius:       parameter.DefaultBallRadius,
		MaxShootAngle:    parameter.DefaultMaxShootAngle,
		PaddleSpeed:      parameter.DefaultPaddleSpeed,
		PaddleHalfWidth:  parameter.DefaultPaddleHalfWidth,
		ArenaWidth:       parameter.DefaultArenaWidth,
		ArenaHeight:      parameter.DefaultArenaHeight,
		DestroyTimeout:   parameter.DestroyRequestTimeout,
		AudioEnabled:     true,
		Volume:           parameter.DefaultVolume,
		LogLevel:         "info",
		LogFile:          "breakout.log",
	}
}

// Load parses configuration from environment variables and validates it
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would produce an empty or broken session
func (c Config) Validate() error {
	switch {
	case c.Columns <= 0 || c.Rows <= 0:
		return core.Errorf(core.CodeConfiguration, "grid dimensions must be positive, got %dx%d", c.Columns, c.Rows)
	case c.Columns > parameter.MaxGridDimension || c.Rows > parameter.MaxGridDimension || c.Columns*c.Rows > parameter.MaxGridCells:
		return core.Errorf(core.CodeConfiguration, "grid %dx%d exceeds %d cells", c.Columns, c.Rows, parameter.MaxGridCells)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return core.Errorf(core.CodeConfiguration, "cell size must be positive, got %gx%g", c.CellWidth, c.CellHeight)
	case c.OffsetX < 0 || c.OffsetY < 0:
		return core.Errorf(core.CodeConfiguration, "cell offsets must not be negative")
	case c.BallSpeed <= 0:
		return core.Errorf(core.CodeConfiguration, "ball speed must be positive, got %g", c.BallSpeed)
	case c.BallRadius <= 0:
		return core.Errorf(core.CodeConfiguration, "ball radius must be positive, got %g", c.BallRadius)
	case c.MaxShootAngle <= 0 || c.MaxShootAngle >= 90:
		return core.Errorf(core.CodeConfiguration, "max shoot angle must be in (0, 90) degrees, got %g", c.MaxShootAngle)
	case c.PaddleSpeed <= 0 || c.PaddleHalfWidth <= 0:
		return core.Errorf(core.CodeConfiguration, "paddle speed and half width must be positive")
	case c.ArenaWidth <= 2*c.PaddleHalfWidth || c.ArenaHeight <= 0:
		return core.Errorf(core.CodeConfiguration, "arena %gx%g too small for paddle", c.ArenaWidth, c.ArenaHeight)
	case c.PointsMultiplier < 0 || c.BlockPoints < 0:
		return core.Errorf(core.CodeConfiguration, "points and multiplier must not be negative")
	case c.DestroyTimeout <= 0:
		return core.Errorf(core.CodeConfiguration, "destroy timeout must be positive")
	}
	if _, err := c.Gradient(); err != nil {
		return core.Wrap(core.CodeConfiguration, "gradient", err)
	}
	if _, err := c.SessionRole(); err != nil {
		return err
	}
	return nil
}

// Gradient returns the row color gradient
func (c Config) Gradient() (core.Gradient, error) {
	top, err := core.ParseHex(c.GradientTop)
	if err != nil {
		return nil, err
	}
	end, err := core.ParseHex(c.GradientEnd)
	if err != nil {
		return nil, err
	}
	return core.NewGradient(top, end), nil
}

// SessionRole maps the configured network role to the session role
func (c Config) SessionRole() (core.Role, error) {
	switch strings.ToLower(c.Role) {
	case "server":
		return core.RoleAuthority, nil
	case "host", "local", "":
		return core.RoleAuthorityObserver, nil
	case "client", "peer":
		return core.RoleObserver, nil
	default:
		return 0, core.Errorf(core.CodeConfiguration, "unknown role %q", c.Role)
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
