package command

import (
	"context"
	"fmt"

	"github.com/n1rna/hbnb-cli/internal/config"
	"github.com/n1rna/hbnb-cli/internal/manager"
)

type (
	managerKey struct{}
	configKey  struct{}
)

// WithManager returns a new context with the record manager instance
func WithManager(ctx context.Context, mgr *manager.Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, mgr)
}

// GetManager retrieves the record manager instance from the context
func GetManager(ctx context.Context) *manager.Manager {
	if mgr, ok := ctx.Value(managerKey{}).(*manager.Manager); ok {
		return mgr
	}
	return nil
}

// RequireManager retrieves the record manager and returns an error if not found
func RequireManager(ctx context.Context) (*manager.Manager, error) {
	mgr := GetManager(ctx)
	if mgr == nil {
		return nil, fmt.Errorf("record manager not initialized")
	}
	return mgr, nil
}

// WithConfig returns a new context with the loaded configuration
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the configuration from the context
func GetConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return nil
}
