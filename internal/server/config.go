package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings     `hcl:"server,block"`
	Game   *GameSettingsBlock `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettingsBlock is the HCL form of GameSettings
type GameSettingsBlock struct {
	SelectionTimeoutSeconds int `hcl:"selection_timeout_seconds,optional"`
	BotDelayMs              int `hcl:"bot_delay_ms,optional"`
	IdleTimeoutMinutes      int `hcl:"idle_timeout_minutes,optional"`
	ReapIntervalSeconds     int `hcl:"reap_interval_seconds,optional"`
}

// GameSettings controls round timing
type GameSettings struct {
	SelectionTimeout time.Duration // How long humans get to pick a secret
	BotDelay         time.Duration // Pause before each automated move
	IdleTimeout      time.Duration // Rooms untouched for this long are reaped; 0 disables
	ReapInterval     time.Duration // How often to look for idle rooms
}

// DefaultGameSettings returns the standard round timing
func DefaultGameSettings() GameSettings {
	return GameSettings{
		SelectionTimeout: 120 * time.Second,
		BotDelay:         time.Second,
		IdleTimeout:      time.Hour,
		ReapInterval:     time.Minute,
	}
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	d := DefaultGameSettings()
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: &GameSettingsBlock{
			SelectionTimeoutSeconds: int(d.SelectionTimeout / time.Second),
			BotDelayMs:              int(d.BotDelay / time.Millisecond),
			IdleTimeoutMinutes:      int(d.IdleTimeout / time.Minute),
			ReapIntervalSeconds:     int(d.ReapInterval / time.Second),
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultServerConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}

	if config.Game == nil {
		config.Game = defaults.Game
	} else {
		if config.Game.SelectionTimeoutSeconds == 0 {
			config.Game.SelectionTimeoutSeconds = defaults.Game.SelectionTimeoutSeconds
		}
		if config.Game.BotDelayMs == 0 {
			config.Game.BotDelayMs = defaults.Game.BotDelayMs
		}
		if config.Game.IdleTimeoutMinutes == 0 {
			config.Game.IdleTimeoutMinutes = defaults.Game.IdleTimeoutMinutes
		}
		if config.Game.ReapIntervalSeconds == 0 {
			config.Game.ReapIntervalSeconds = defaults.Game.ReapIntervalSeconds
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	if c.Game == nil {
		return fmt.Errorf("game settings missing")
	}
	if c.Game.SelectionTimeoutSeconds < 1 {
		return fmt.Errorf("selection timeout must be at least 1 second")
	}
	if c.Game.BotDelayMs < 0 {
		return fmt.Errorf("bot delay must not be negative")
	}
	if c.Game.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("idle timeout must not be negative")
	}
	if c.Game.ReapIntervalSeconds < 1 {
		return fmt.Errorf("reap interval must be at least 1 second")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameSettings converts the game block into durations
func (c *ServerConfig) GameSettings() GameSettings {
	if c.Game == nil {
		return DefaultGameSettings()
	}
	return GameSettings{
		SelectionTimeout: time.Duration(c.Game.SelectionTimeoutSeconds) * time.Second,
		BotDelay:         time.Duration(c.Game.BotDelayMs) * time.Millisecond,
		IdleTimeout:      time.Duration(c.Game.IdleTimeoutMinutes) * time.Minute,
		ReapInterval:     time.Duration(c.Game.ReapIntervalSeconds) * time.Second,
	}
}
