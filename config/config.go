package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"markestedt/keywatch/hook"
)

type Config struct {
	Capture CaptureConfig `toml:"capture"`
	Web     WebConfig     `toml:"web"`
	Watches []WatchConfig `toml:"watch"`
}

type CaptureConfig struct {
	StartPaused bool `toml:"start_paused"`
}

type WebConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

// WatchConfig is one watch entry: a key combo to be notified about, and
// whether matching keystrokes are suppressed from the rest of the system.
type WatchConfig struct {
	Combo string `toml:"combo"`
	Block bool   `toml:"block"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		Capture: CaptureConfig{
			StartPaused: false,
		},
		Web: WebConfig{
			Enabled: true,
			Port:    8741,
		},
		Watches: []WatchConfig{
			{Combo: "ctrl+shift+k", Block: false},
		},
	}
}

// Dir returns the keywatch configuration directory, creating it if needed.
func Dir() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
	}

	dir := filepath.Join(appData, "keywatch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the TOML file
// If the file doesn't exist, it creates it with default values
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Load existing config
	cfg := defaultConfig()
	cfg.Watches = nil // file entries replace the default watch
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Watches) == 0 {
		cfg.Watches = defaultConfig().Watches
	}

	return cfg, nil
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Combo represents a parsed key combination: the named key plus the
// modifier mask required for a match.
type Combo struct {
	Mods hook.Modifiers
	Key  string
}

// ParseCombo parses a combo string like "ctrl+shift+k" or "win+space".
// The last part must be a key; earlier parts must be modifiers.
func ParseCombo(combo string) (Combo, error) {
	var c Combo
	parts := strings.Split(strings.ToLower(combo), "+")

	for i, part := range parts {
		part = strings.TrimSpace(part)

		var bit hook.Modifiers
		switch part {
		case "ctrl", "control":
			bit = hook.ModControl
		case "lctrl":
			bit = hook.ModLeftControl
		case "rctrl":
			bit = hook.ModRightControl
		case "shift":
			bit = hook.ModShift
		case "lshift":
			bit = hook.ModLeftShift
		case "rshift":
			bit = hook.ModRightShift
		case "alt":
			bit = hook.ModAlt
		case "lalt":
			bit = hook.ModLeftAlt
		case "ralt":
			bit = hook.ModRightAlt
		case "win", "windows":
			bit = hook.ModWin
		case "lwin":
			bit = hook.ModLeftWin
		case "rwin":
			bit = hook.ModRightWin
		}

		if bit != 0 {
			c.Mods |= bit
			continue
		}
		if i != len(parts)-1 {
			return c, fmt.Errorf("unknown modifier: %s", part)
		}
		c.Key = part
	}

	if c.Key == "" {
		return c, fmt.Errorf("combo %q has no key", combo)
	}
	return c, nil
}
