package bootstrap

import (
	"fmt"

	"github.com/go-authgate/oauth1gate/internal/config"

	"go.uber.org/zap"
)

const defaultSessionSecret = "session-secret-change-in-production"

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateProductionConfig(cfg); err != nil {
		return fmt.Errorf("invalid production configuration: %w", err)
	}
	return nil
}

// validateProductionConfig refuses settings that are only acceptable in
// development.
func validateProductionConfig(cfg *config.Config) error {
	if !cfg.IsProduction {
		if cfg.SessionSecret == defaultSessionSecret {
			zap.S().Warn("Using the default SESSION_SECRET; set one before deploying")
		}
		return nil
	}
	if cfg.SessionSecret == defaultSessionSecret || len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be set to at least 32 characters")
	}
	return nil
}
