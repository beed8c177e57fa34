package config

import (
	"fmt"
	"net"
	"strings"
)

func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}
	addr := strings.TrimSpace(cfg.ListenAddress)
	if addr == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("config: invalid ListenAddress %q: %w", addr, err)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("config: DataDir required")
	}
	if cfg.AssetAddress != "" {
		if _, err := cfg.Asset(); err != nil {
			return fmt.Errorf("config: invalid AssetAddress: %w", err)
		}
	}
	if cfg.Logging.File != "" {
		if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
			return fmt.Errorf("config: logging rotation values must not be negative")
		}
	}
	return nil
}
