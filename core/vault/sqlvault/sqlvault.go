// Package sqlvault implements vault.Vault on a MySQL database through GORM.
//
// Items live in vault_items and collections in vault_collections. Handles
// are random UUIDs assigned on creation.
package sqlvault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vault-sync/core/naming"
	"vault-sync/core/vault"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Vault stores items and collections in SQL tables.
type Vault struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps an open database. The tables must already exist.
func New(db *gorm.DB) *Vault {
	return &Vault{db: db, now: time.Now}
}

// Open wraps an open database and migrates the vault tables.
func Open(db *gorm.DB) (*Vault, error) {
	if err := db.AutoMigrate(&ItemRecord{}, &CollectionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate vault tables: %w", err)
	}
	return New(db), nil
}

// SetClock replaces the revision time source.
func (v *Vault) SetClock(now func() time.Time) {
	v.now = now
}

func realmPattern(realm string) string {
	return likeEscaper.Replace(naming.Prefix(realm)) + "%"
}

func toItem(r ItemRecord) vault.Item {
	return vault.Item{
		ID:           r.ID,
		Name:         r.Name,
		Collection:   r.Collection,
		Notes:        r.Notes,
		RevisionDate: r.RevisionDate.UTC(),
	}
}

// GetItems lists the items of a realm without their notes.
// Rows are filtered by exact prefix as well, since tables created with a
// case-insensitive collation match "State:" for "state:".
func (v *Vault) GetItems(ctx context.Context, realm string) (map[string]vault.Item, error) {
	var rows []ItemRecord
	err := v.db.WithContext(ctx).
		Select("id", "name", "collection", "revision_date").
		Where("name LIKE ?", realmPattern(realm)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items of realm %s: %w", realm, err)
	}

	prefix := naming.Prefix(realm)
	items := make(map[string]vault.Item, len(rows))
	for _, r := range rows {
		if !strings.HasPrefix(r.Name, prefix) {
			continue
		}
		items[r.Name] = toItem(r)
	}
	return items, nil
}

// GetItem returns a single item by name.
func (v *Vault) GetItem(ctx context.Context, name string) (*vault.Item, error) {
	var rows []ItemRecord
	if err := v.db.WithContext(ctx).Where("name = ?", name).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", name, err)
	}
	for _, r := range rows {
		if r.Name == name {
			item := toItem(r)
			return &item, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", name, vault.ErrNotFound)
}

// CreateItem inserts a new item with a fresh handle.
func (v *Vault) CreateItem(ctx context.Context, name, collection, content string) error {
	rec := ItemRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Collection:   collection,
		Notes:        content,
		RevisionDate: v.now().UTC(),
	}
	if err := v.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create item %s: %w", name, err)
	}
	return nil
}

// UpdateItem replaces the note and bumps the revision time.
func (v *Vault) UpdateItem(ctx context.Context, id, content string) error {
	res := v.db.WithContext(ctx).
		Model(&ItemRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"notes": content, "revision_date": v.now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("failed to update item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", id, vault.ErrNotFound)
	}
	return nil
}

// DeleteItem removes the item with the given handle.
func (v *Vault) DeleteItem(ctx context.Context, id string) error {
	res := v.db.WithContext(ctx).Where("id = ?", id).Delete(&ItemRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", id, vault.ErrNotFound)
	}
	return nil
}

// GetCollections lists the collections of a realm, name to handle.
func (v *Vault) GetCollections(ctx context.Context, realm string) (map[string]string, error) {
	var rows []CollectionRecord
	if err := v.db.WithContext(ctx).Where("name LIKE ?", realmPattern(realm)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list collections of realm %s: %w", realm, err)
	}

	prefix := naming.Prefix(realm)
	cols := make(map[string]string, len(rows))
	for _, r := range rows {
		if strings.HasPrefix(r.Name, prefix) {
			cols[r.Name] = r.ID
		}
	}
	return cols, nil
}

// CreateCollection inserts a collection.
func (v *Vault) CreateCollection(ctx context.Context, name string) error {
	rec := CollectionRecord{ID: uuid.NewString(), Name: name}
	if err := v.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// DeleteCollection removes a collection by name. Items keep their collection column.
func (v *Vault) DeleteCollection(ctx context.Context, name string) error {
	res := v.db.WithContext(ctx).Where("name = ?", name).Delete(&CollectionRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection %s: %w", name, vault.ErrNotFound)
	}
	return nil
}

// IsNotFound reports whether err means a missing item or collection.
func IsNotFound(err error) bool {
	return errors.Is(err, vault.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
