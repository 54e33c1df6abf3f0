package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1123antman/battle-super-z/internal/game"
)

// Defaults.
const (
	DefaultAddr       = ":3000"
	DefaultAIDelay    = 1500 * time.Millisecond
	DefaultMaxPlayers = game.MaxPlayers
	DefaultDeckSize   = 10
	DefaultGrace      = 5 * time.Minute
)

// Config is the server configuration file.
type Config struct {
	Server Server `yaml:"server"`
	Game   Game   `yaml:"game"`
}

type Server struct {
	Addr           string        `yaml:"addr"`
	AIDelay        time.Duration `yaml:"ai_delay"`
	ReconnectGrace time.Duration `yaml:"reconnect_grace"`
	MaxPlayers     int           `yaml:"max_players"`
	LogLevel       string        `yaml:"log_level"`
	Dev            bool          `yaml:"dev"`
}

type Game struct {
	DecksFile       string `yaml:"decks_file"`
	DefaultDeckSize int    `yaml:"default_deck_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:           DefaultAddr,
			AIDelay:        DefaultAIDelay,
			ReconnectGrace: DefaultGrace,
			MaxPlayers:     DefaultMaxPlayers,
			LogLevel:       "info",
		},
		Game: Game{DefaultDeckSize: DefaultDeckSize},
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the data leaves out, and
// validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.AIDelay < 0 {
		errs = append(errs, errors.New("server.ai_delay must not be negative"))
	}
	if c.Server.ReconnectGrace <= 0 {
		errs = append(errs, errors.New("server.reconnect_grace must be positive"))
	}
	if c.Server.MaxPlayers < game.MinPlayers || c.Server.MaxPlayers > game.MaxPlayers {
		errs = append(errs, fmt.Errorf("server.max_players must be between %d and %d", game.MinPlayers, game.MaxPlayers))
	}
	if c.Game.DefaultDeckSize < 0 {
		errs = append(errs, errors.New("game.default_deck_size must not be negative"))
	}
	switch c.Server.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("server.log_level %q is not one of debug, info, warn, error", c.Server.LogLevel))
	}
	return errors.Join(errs...)
}

// Library loads the deck file named by the configuration, or the built-in
// presets when none is set.
func (c *Config) Library() (*game.DeckLibrary, error) {
	if c.Game.DecksFile == "" {
		return game.DefaultLibrary(), nil
	}
	return game.LoadDeckFile(c.Game.DecksFile)
}
