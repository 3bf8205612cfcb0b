package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// PathEnv names the variable pointing at the YAML config file.
	PathEnv = "CONFIG_PATH"
	// DefaultPath is where the sweep and migrate commands look for the
	// incident desk config when PathEnv is unset. It is optional.
	DefaultPath = "./configs/incident-desk.yaml"
)

// Load builds the incident desk config. Values come from ENV, then the YAML
// file, then env-default tags. A missing file is an error only when PathEnv
// names it; a missing DefaultPath falls back to ENV and defaults.
func Load() (*Config, error) {
	var cfg Config

	path, explicit := configPath()
	err := cleanenv.ReadConfig(path, &cfg)
	switch {
	case err == nil:
	case !explicit && isNotExist(path):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func configPath() (string, bool) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, true
	}
	return DefaultPath, false
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
