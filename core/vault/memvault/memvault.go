// Package memvault provides an in-process vault.Vault.
package memvault

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vault-sync/core/naming"
	"vault-sync/core/vault"

	"github.com/google/uuid"
)

// Vault keeps items and collections in memory.
type Vault struct {
	mu          sync.RWMutex
	items       map[string]vault.Item // by name
	collections map[string]string     // name -> handle
	now         func() time.Time
}

// New creates an empty vault.
func New() *Vault {
	return &Vault{
		items:       make(map[string]vault.Item),
		collections: make(map[string]string),
		now:         time.Now,
	}
}

// SetClock overrides the clock used for revision dates.
func (v *Vault) SetClock(now func() time.Time) {
	v.now = now
}

// Put stores an item as is, assigning a handle if it has none.
func (v *Vault) Put(item vault.Item) vault.Item {
	v.mu.Lock()
	defer v.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.RevisionDate = item.RevisionDate.UTC()
	v.items[item.Name] = item
	return item
}

// PutCollection registers a collection.
func (v *Vault) PutCollection(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.collections[name] = uuid.NewString()
}

// Item returns the stored item with the given name.
func (v *Vault) Item(name string) (vault.Item, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	item, ok := v.items[name]
	return item, ok
}

// CollectionNames returns all collection names, sorted.
func (v *Vault) CollectionNames() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.collections))
	for name := range v.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v *Vault) GetItems(ctx context.Context, realm string) (map[string]vault.Item, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	prefix := naming.Prefix(realm)
	items := make(map[string]vault.Item)
	for name, item := range v.items {
		if strings.HasPrefix(name, prefix) {
			items[name] = item
		}
	}
	return items, nil
}

func (v *Vault) GetItem(ctx context.Context, name string) (*vault.Item, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	item, ok := v.items[name]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", name, vault.ErrNotFound)
	}
	return &item, nil
}

func (v *Vault) CreateItem(ctx context.Context, name, collection, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.items[name]; ok {
		return fmt.Errorf("item %s already exists", name)
	}
	v.items[name] = vault.Item{
		ID:           uuid.NewString(),
		Name:         name,
		Collection:   collection,
		Notes:        content,
		RevisionDate: v.now().UTC(),
	}
	return nil
}

func (v *Vault) UpdateItem(ctx context.Context, id, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for name, item := range v.items {
		if item.ID == id {
			item.Notes = content
			item.RevisionDate = v.now().UTC()
			v.items[name] = item
			return nil
		}
	}
	return fmt.Errorf("item handle %s: %w", id, vault.ErrNotFound)
}

func (v *Vault) DeleteItem(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for name, item := range v.items {
		if item.ID == id {
			delete(v.items, name)
			return nil
		}
	}
	return fmt.Errorf("item handle %s: %w", id, vault.ErrNotFound)
}

func (v *Vault) GetCollections(ctx context.Context, realm string) (map[string]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	prefix := naming.Prefix(realm)
	cols := make(map[string]string)
	for name, handle := range v.collections {
		if strings.HasPrefix(name, prefix) {
			cols[name] = handle
		}
	}
	return cols, nil
}

func (v *Vault) CreateCollection(ctx context.Context, name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.collections[name]; ok {
		return fmt.Errorf("collection %s already exists", name)
	}
	v.collections[name] = uuid.NewString()
	return nil
}

func (v *Vault) DeleteCollection(ctx context.Context, name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.collections[name]; !ok {
		return fmt.Errorf("collection %s: %w", name, vault.ErrNotFound)
	}
	delete(v.collections, name)
	return nil
}
