package cmd

import (
	"context"
	"fmt"

	"vault-sync/core/config"
	"vault-sync/core/logger"
	"vault-sync/core/stamp"
	"vault-sync/core/vault"
	"vault-sync/core/vault/backend"

	"go.uber.org/zap"
)

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	vault  vault.Vault
	close  func()
}

// loadApp reads the configuration, builds the logger and opens the vault.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(config.Options{Dir: configDir, Files: configFiles})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	v, closeVault, err := backend.Open(ctx, cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: l,
		vault:  v,
		close: func() {
			closeVault()
			_ = l.Sync()
		},
	}, nil
}

// stamp returns the last-update stamp of the configuration.
func (a *app) stamp() (*stamp.Stamp, error) {
	path, err := config.ExpandHome(a.cfg.Sync.StampFile)
	if err != nil {
		return nil, err
	}
	return stamp.New(nil, path), nil
}

// touchStamp records a successful pass.
func (a *app) touchStamp() error {
	st, err := a.stamp()
	if err != nil {
		return err
	}
	return st.Touch()
}
