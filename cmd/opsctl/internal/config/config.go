package config

import (
	"context"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/client"
	"go.uber.org/zap"
)

type contextKey string

const configKey contextKey = "opsctl-config"

// GlobalConfig holds shared configuration for all opsctl commands.
// This is injected into the cobra command context by the root command's
// PersistentPreRun hook and consumed by all subcommands.
type GlobalConfig struct {
	ServerURL      string
	IdentityURL    string
	ClientID       string
	NonInteractive bool
	Logger         *zap.Logger
	Clients        *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics. Only for
// command RunE functions, where the root command has injected it.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("opsctl: config not found in context - this is a bug in opsctl")
	}
	return cfg
}
