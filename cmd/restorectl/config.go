package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type settings struct {
	assemblyPath   string
	executablePath string
	monoPrefix     string
	targetsPath    string
	tempDir        string
	verbose        bool
	timeout        time.Duration
}

type fileConfig struct {
	AssemblyPath   string `toml:"assembly_path"`
	ExecutablePath string `toml:"executable_path"`
	MonoPrefix     string `toml:"mono_prefix"`
	TargetsPath    string `toml:"targets_path"`
	TempDir        string `toml:"temp_dir"`
	Verbose        bool   `toml:"verbose"`
	Timeout        string `toml:"timeout"`
}

func defaultSettings() settings {
	return settings{}
}

func loadSettings(path string) (settings, error) {
	cfg := defaultSettings()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return settings{}, fmt.Errorf("load restorectl config: %w", err)
	}

	if meta.IsDefined("assembly_path") {
		cfg.assemblyPath = strings.TrimSpace(raw.AssemblyPath)
	}
	if meta.IsDefined("executable_path") {
		cfg.executablePath = strings.TrimSpace(raw.ExecutablePath)
	}
	if meta.IsDefined("mono_prefix") {
		cfg.monoPrefix = strings.TrimSpace(raw.MonoPrefix)
	}
	if meta.IsDefined("targets_path") {
		cfg.targetsPath = strings.TrimSpace(raw.TargetsPath)
	}
	if meta.IsDefined("temp_dir") {
		cfg.tempDir = strings.TrimSpace(raw.TempDir)
	}
	if meta.IsDefined("verbose") {
		cfg.verbose = raw.Verbose
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return settings{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.timeout = d
	}

	return cfg, nil
}
