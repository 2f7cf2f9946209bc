package reconcile

import (
	"context"
	"errors"
	"fmt"

	"vault-sync/core/vault"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Engine synchronizes realms between the local filesystem and a vault.
// It keeps no state between passes and must not run two passes at once.
type Engine struct {
	realms  []Realm
	vault   vault.Vault
	fs      afero.Fs
	logger  *zap.Logger
	opts    Options
	hooks   Hooks
	decider Decider
}

// NewEngine creates an engine for the given realms.
// A nil fs uses the OS filesystem, a nil logger discards output.
func NewEngine(realms []Realm, v vault.Vault, fs afero.Fs, logger *zap.Logger, opts Options) *Engine {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		realms: realms,
		vault:  v,
		fs:     fs,
		logger: logger,
		opts:   opts,
	}
	e.decider = &e.hooks
	return e
}

// RegisterHook installs a decision callback for one of the hook kinds
// "onlyfile", "onlyvault" and "update". It switches the engine back to
// hook-based decisions if another Decider was set.
func (e *Engine) RegisterHook(kind HookKind, fn HookFunc) error {
	if err := e.hooks.Set(kind, fn); err != nil {
		return err
	}
	e.decider = &e.hooks
	return nil
}

// SetDecider replaces the decision provider.
func (e *Engine) SetDecider(d Decider) {
	if d == nil {
		d = &e.hooks
	}
	e.decider = d
}

// Options returns the engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// Realms returns the configured realms in sync order.
func (e *Engine) Realms() []Realm {
	return e.realms
}

// Realm returns the configured realm with the given name.
func (e *Engine) Realm(name string) (Realm, bool) {
	for _, r := range e.realms {
		if r.Name == name {
			return r, true
		}
	}
	return Realm{}, false
}

// Plan builds the plan for a realm without applying it.
func (e *Engine) Plan(ctx context.Context, realm, root string) (*Plan, error) {
	snap, err := e.BuildSnapshot(ctx, realm, root)
	if err != nil {
		return nil, err
	}
	return BuildPlan(snap, e.opts, e.decider), nil
}

// SyncFolderAndVault runs one pass for a single realm.
// Per-item failures are reported in the result; only configuration and
// listing errors are returned.
func (e *Engine) SyncFolderAndVault(ctx context.Context, realm, root string) (*Result, error) {
	l := e.logger.With(zap.String("realm", realm), zap.String("root", root))
	l.Info("Syncing realm")

	plan, err := e.Plan(ctx, realm, root)
	if err != nil {
		return nil, err
	}

	if e.opts.DryRun {
		l.Info("Dry-run mode: no changes were made",
			zap.Int("total_items", plan.Summary.TotalItems),
			zap.Int("mutations", plan.Summary.Mutations),
		)
		return &Result{Plan: plan, DryRun: true}, nil
	}

	result := e.Apply(ctx, plan)
	l.Info("Realm synced",
		zap.Int("total_items", plan.Summary.TotalItems),
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", plan.Summary.Skipped),
		zap.Int("unreadable", plan.Summary.Unreadable),
	)
	return result, nil
}

// SyncAll synchronizes every configured realm in order.
// Invalid realm definitions abort before anything is changed. A realm that
// fails as a whole does not stop the remaining realms; all such errors are
// joined in the returned error.
func (e *Engine) SyncAll(ctx context.Context) ([]*Result, error) {
	if err := ValidateRealms(e.realms); err != nil {
		return nil, err
	}

	var errs []error
	results := make([]*Result, 0, len(e.realms))
	for _, realm := range e.realms {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		result, err := e.SyncFolderAndVault(ctx, realm.Name, realm.Path)
		if err != nil {
			e.logger.Error("Realm sync failed", zap.String("realm", realm.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("realm %s: %w", realm.Name, err))
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

// ValidateRealms checks every realm and rejects duplicate names.
func ValidateRealms(realms []Realm) error {
	seen := make(map[string]struct{}, len(realms))
	for _, r := range realms {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.Name]; dup {
			return &ConfigurationError{Realm: r.Name, Reason: "defined more than once"}
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}
