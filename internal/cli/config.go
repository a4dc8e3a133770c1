package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults loaded from the config file. Command-line flags
// take precedence over these values.
//
// The file lives at ~/.config/phylogram/config.toml (or under
// $XDG_CONFIG_HOME) and every field is optional:
//
//	orientation = "left"
//	display_level = 6
//	cache_dir = "/var/cache/phylogram"
type Config struct {
	Orientation  string `toml:"orientation"`
	DisplayLevel int    `toml:"display_level"`
	CacheDir     string `toml:"cache_dir"`
}

// LoadConfig reads the user's config file. A missing file returns a zero
// Config with no error; a malformed file returns the zero Config and the
// decode error so callers can warn without aborting.
func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configPath returns the config file location using the XDG standard.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
