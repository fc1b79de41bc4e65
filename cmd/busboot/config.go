package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FlashConfig configures a flash run. Values come from an optional TOML
// file and can be overridden per-flag.
type FlashConfig struct {
	Port            string `toml:"port"`
	Baud            int    `toml:"baud"`
	PageSize        int    `toml:"page_size"`
	VersionMajor    int    `toml:"version_major"`
	VersionMinor    int    `toml:"version_minor"`
	MaxTries        int    `toml:"max_tries"`
	PageDelayMs     int    `toml:"page_delay_ms"`
	SignalTimeoutMs int    `toml:"signal_timeout_ms"`
}

func defaultFlashConfig() FlashConfig {
	return FlashConfig{
		Baud:            57600,
		MaxTries:        2,
		PageDelayMs:     800,
		SignalTimeoutMs: 1000,
	}
}

// LoadFlashConfig reads a TOML config file on top of the defaults.
// Validation happens separately, after flag overrides are applied.
func LoadFlashConfig(path string) (FlashConfig, error) {
	cfg := defaultFlashConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return FlashConfig{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return FlashConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func ValidateFlashConfig(cfg FlashConfig) error {
	if cfg.Port == "" {
		return fmt.Errorf("port is required")
	}
	if cfg.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", cfg.Baud)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	if cfg.VersionMajor < 0 || cfg.VersionMajor > 255 {
		return fmt.Errorf("version_major %d out of range 0-255", cfg.VersionMajor)
	}
	if cfg.VersionMinor < 0 || cfg.VersionMinor > 255 {
		return fmt.Errorf("version_minor %d out of range 0-255", cfg.VersionMinor)
	}
	if cfg.MaxTries < 0 {
		return fmt.Errorf("max_tries must not be negative, got %d", cfg.MaxTries)
	}
	if cfg.PageDelayMs < 0 {
		return fmt.Errorf("page_delay_ms must not be negative, got %d", cfg.PageDelayMs)
	}
	if cfg.SignalTimeoutMs <= 0 {
		return fmt.Errorf("signal_timeout_ms must be positive, got %d", cfg.SignalTimeoutMs)
	}
	return nil
}
