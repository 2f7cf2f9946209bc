package realms

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vault-sync/core/reconcile"
	"vault-sync/core/vault"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownRealm is returned for realm names that are not configured.
var ErrUnknownRealm = errors.New("unknown realm")

// Options configures the service.
type Options struct {
	// Sync holds the automatic directions. DryRun is ignored; plans are always dry.
	Sync reconcile.Options
	// Timeout bounds a single sync pass.
	Timeout time.Duration
	// AfterSync runs after a pass that finished without realm errors.
	AfterSync func() error
}

// SyncResponse is the outcome of a triggered pass.
type SyncResponse struct {
	Results []*reconcile.Result `json:"results"`
	Error   string              `json:"error,omitempty"`
	// Shared is true when the pass was started by a concurrent request.
	Shared bool `json:"shared"`
}

// Service runs plans and sync passes without user interaction.
type Service struct {
	realms []reconcile.Realm
	vault  vault.Vault
	fs     afero.Fs
	logger *zap.Logger
	opts   Options

	mu    sync.Mutex
	group singleflight.Group
}

// NewService creates a realms service.
func NewService(realms []reconcile.Realm, v vault.Vault, fs afero.Fs, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		realms: realms,
		vault:  v,
		fs:     fs,
		logger: logger,
		opts:   opts,
	}
}

// Realms returns the configured realms.
func (s *Service) Realms() []reconcile.Realm {
	return s.realms
}

func (s *Service) engine(realms []reconcile.Realm, dryRun bool) *reconcile.Engine {
	opts := s.opts.Sync
	opts.DryRun = dryRun
	e := reconcile.NewEngine(realms, s.vault, s.fs, s.logger, opts)
	e.SetDecider(reconcile.AutoDecider{})
	return e
}

func (s *Service) lookup(names []string) ([]reconcile.Realm, error) {
	if len(names) == 0 {
		return s.realms, nil
	}
	selected := make([]reconcile.Realm, 0, len(names))
	for _, name := range names {
		found := false
		for _, r := range s.realms {
			if r.Name == name {
				selected = append(selected, r)
				found = true
				break
			}
		}
		if !found {
			return nil, &unknownRealmError{name: name}
		}
	}
	return selected, nil
}

// Plan builds the plan of one realm with the automatic decisions.
func (s *Service) Plan(ctx context.Context, name string) (*reconcile.Plan, error) {
	realms, err := s.lookup([]string{name})
	if err != nil {
		return nil, err
	}
	return s.engine(realms, true).Plan(ctx, realms[0].Name, realms[0].Path)
}

// Sync runs a pass over the named realms, or all realms when names is empty.
// Identical concurrent requests share one pass; different ones run one after
// the other.
func (s *Service) Sync(names []string, dryRun bool) (*SyncResponse, error) {
	realms, err := s.lookup(names)
	if err != nil {
		return nil, err
	}

	v, _, shared := s.group.Do(flightKey(realms, dryRun), func() (any, error) {
		return s.run(realms, dryRun), nil
	})

	resp := *v.(*SyncResponse)
	resp.Shared = shared
	return &resp, nil
}

func (s *Service) run(realms []reconcile.Realm, dryRun bool) *SyncResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	results, err := s.engine(realms, dryRun).SyncAll(ctx)
	resp := &SyncResponse{Results: results}
	if err != nil {
		s.logger.Error("Sync pass failed", zap.Error(err))
		resp.Error = err.Error()
		return resp
	}

	if !dryRun && s.opts.AfterSync != nil {
		if err := s.opts.AfterSync(); err != nil {
			s.logger.Warn("Post-sync hook failed", zap.Error(err))
		}
	}
	return resp
}

func flightKey(realms []reconcile.Realm, dryRun bool) string {
	names := make([]string, 0, len(realms))
	for _, r := range realms {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	key := strings.Join(names, ",")
	if dryRun {
		key += "|dry"
	}
	return key
}

type unknownRealmError struct {
	name string
}

func (e *unknownRealmError) Error() string {
	return "unknown realm " + e.name
}

func (e *unknownRealmError) Unwrap() error {
	return ErrUnknownRealm
}
