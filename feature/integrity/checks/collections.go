package checks

import (
	"context"
	"errors"
	"fmt"

	"vault-sync/core/naming"
	"vault-sync/core/vault"

	"go.uber.org/zap"
)

// CollectionReport lists the collection problems of one realm.
type CollectionReport struct {
	Realm string `json:"realm"`
	// Items is the number of vault items of the realm.
	Items int `json:"items"`
	// Missing are collections required by items but absent from the vault.
	Missing []string `json:"missing"`
	// Orphaned are collections no item maps to.
	Orphaned []string `json:"orphaned"`
}

// OK reports whether the realm has no collection problems.
func (r *CollectionReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Orphaned) == 0
}

// CheckCollections compares the collections of a realm with its items.
func CheckCollections(ctx context.Context, v vault.Vault, realm string) (*CollectionReport, error) {
	items, err := v.GetItems(ctx, realm)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of realm %s: %w", realm, err)
	}
	collections, err := v.GetCollections(ctx, realm)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections of realm %s: %w", realm, err)
	}

	ids := make(map[string]struct{}, len(items))
	for name := range items {
		ids[name] = struct{}{}
	}
	required := naming.CollectionIDs(ids)

	report := &CollectionReport{Realm: realm, Items: len(items), Missing: []string{}, Orphaned: []string{}}
	for _, name := range naming.Sorted(required) {
		if _, ok := collections[name]; !ok {
			report.Missing = append(report.Missing, name)
		}
	}

	known := make(map[string]struct{}, len(collections))
	for name := range collections {
		known[name] = struct{}{}
	}
	for _, name := range naming.Sorted(known) {
		if _, ok := required[name]; !ok {
			report.Orphaned = append(report.Orphaned, name)
		}
	}
	return report, nil
}

// FixCollections creates the missing collections and deletes the orphaned
// ones. Every fix is attempted; the failures are returned joined.
func FixCollections(ctx context.Context, v vault.Vault, logger *zap.Logger, report *CollectionReport) error {
	var errs []error
	for _, name := range report.Missing {
		if err := v.CreateCollection(ctx, name); err != nil {
			logger.Error("Failed to create collection", zap.String("collection", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Info("Created missing collection", zap.String("collection", name))
	}
	for _, name := range report.Orphaned {
		if err := v.DeleteCollection(ctx, name); err != nil {
			logger.Error("Failed to delete collection", zap.String("collection", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Info("Deleted orphaned collection", zap.String("collection", name))
	}
	return errors.Join(errs...)
}
