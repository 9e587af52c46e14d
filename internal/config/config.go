package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config identifies the remote target this process talks to. It is read
// once at startup and never mutated.
type Config struct {
	Host        string `yaml:"host"`
	User        string `yaml:"user"`
	Port        int    `yaml:"port"`
	SSHKey      string `yaml:"ssh_key"`
	Session     string `yaml:"session"`
	ControlPath string `yaml:"control_path"`
}

const (
	defaultHost    = "remote-worker"
	defaultSession = "rdev"
)

// Load reads the config from ~/.config/rdev/config.yaml, then applies
// RDEV_* environment overrides and defaults. A missing file is not an
// error; the defaults alone are a usable config.
func Load() (*Config, error) {
	var cfg Config

	home, _ := os.UserHomeDir()
	if home != "" {
		path := filepath.Join(home, ".config", "rdev", "config.yaml")
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(&cfg)

	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Session == "" {
		cfg.Session = defaultSession
	}
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ControlPath == "" {
		cfg.ControlPath = filepath.Join(os.TempDir(), "rdev-ssh-%r@%h:%p")
	}

	// Expand ~ in ssh_key
	if len(cfg.SSHKey) > 0 && cfg.SSHKey[0] == '~' && home != "" {
		cfg.SSHKey = filepath.Join(home, cfg.SSHKey[1:])
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RDEV_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("RDEV_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("RDEV_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("RDEV_SSH_KEY"); v != "" {
		cfg.SSHKey = v
	}
	if v := os.Getenv("RDEV_SESSION"); v != "" {
		cfg.Session = v
	}
}
