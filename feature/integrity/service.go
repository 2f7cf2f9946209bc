package integrity

import (
	"context"
	"errors"
	"fmt"

	"vault-sync/core/reconcile"
	"vault-sync/core/vault"
	"vault-sync/feature/integrity/checks"

	"go.uber.org/zap"
)

// ErrUnknownRealm is returned for realm names that are not configured.
var ErrUnknownRealm = errors.New("unknown realm")

// Service handles vault integrity checks.
type Service struct {
	realms []reconcile.Realm
	vault  vault.Vault
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(realms []reconcile.Realm, v vault.Vault, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		realms: realms,
		vault:  v,
		logger: logger,
	}
}

// Check returns the collection report of the named realms, or of all realms.
func (s *Service) Check(ctx context.Context, names []string) ([]*checks.CollectionReport, error) {
	selected, err := s.lookup(names)
	if err != nil {
		return nil, err
	}

	reports := make([]*checks.CollectionReport, 0, len(selected))
	for _, realm := range selected {
		report, err := checks.CheckCollections(ctx, s.vault, realm)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Fix repairs the problems listed in the reports.
func (s *Service) Fix(ctx context.Context, reports []*checks.CollectionReport) error {
	var errs []error
	for _, report := range reports {
		if report.OK() {
			continue
		}
		if err := checks.FixCollections(ctx, s.vault, s.logger.With(zap.String("realm", report.Realm)), report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) lookup(names []string) ([]string, error) {
	if len(names) == 0 {
		out := make([]string, 0, len(s.realms))
		for _, r := range s.realms {
			out = append(out, r.Name)
		}
		return out, nil
	}
	for _, name := range names {
		found := false
		for _, r := range s.realms {
			if r.Name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRealm, name)
		}
	}
	return names, nil
}
