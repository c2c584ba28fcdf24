package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL          string `yaml:"api_base_url"`
	APIToken            string `yaml:"api_token"`
	SessionSize         int    `yaml:"session_size"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	Theme               string `yaml:"theme"`
	// OpenCommand overrides the platform opener when handing an article
	// URL to the external viewer.
	OpenCommand string `yaml:"open_command"`
	// DataDir overrides where the history database and log file live.
	// Empty means the platform cache dir.
	DataDir string `yaml:"data_dir,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL:          "https://api.nuggetapp.io/v1",
		SessionSize:         5,
		PollIntervalSeconds: 2,
		Theme:               "porcelain",
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.nuggetapp.io/v1"
	}
	if cfg.SessionSize <= 0 {
		cfg.SessionSize = 5
	}
	if cfg.SessionSize > 20 {
		cfg.SessionSize = 20
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 2
	}
	if cfg.Theme == "" {
		cfg.Theme = "porcelain"
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "nugget", "config.yml")
}

// DefaultDataDir holds the history database and logs.
func DefaultDataDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nugget")
	}
	return filepath.Join(base, "nugget")
}
