package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// RestoreConfig is the runtime configuration for restore-graph invocations.
type RestoreConfig struct {
	Engine  EngineConfig `toml:"engine"`
	Restore RunConfig    `toml:"restore"`
	Serve   ServeConfig  `toml:"serve"`
}

// EngineConfig pins the MSBuild engine and mono runtime when discovery
// should not probe the host.
type EngineConfig struct {
	AssemblyPath   string `toml:"assembly_path"`
	ExecutablePath string `toml:"executable_path"`
	MonoPrefix     string `toml:"mono_prefix"`
}

type RunConfig struct {
	TargetsPath string `toml:"targets_path"`
	Verbose     bool   `toml:"verbose"`
	Timeout     string `toml:"timeout"`
	TempDir     string `toml:"temp_dir"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
}

func LoadRestoreConfig(path string) (RestoreConfig, error) {
	var cfg RestoreConfig
	if err := loadToml(path, &cfg); err != nil {
		return RestoreConfig{}, err
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":7080"
	}
	if err := ValidateRestoreConfig(cfg); err != nil {
		return RestoreConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRestoreConfig(cfg RestoreConfig) error {
	if strings.TrimSpace(cfg.Restore.TargetsPath) == "" {
		return fmt.Errorf("restore config missing targets_path")
	}
	if _, err := cfg.Timeout(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Serve.Addr) == "" {
		return fmt.Errorf("restore config missing serve addr")
	}
	return nil
}

// Timeout parses the configured invocation bound; empty means unbounded.
func (c RestoreConfig) Timeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Restore.Timeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("restore config invalid timeout %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("restore config negative timeout %q", raw)
	}
	return d, nil
}
