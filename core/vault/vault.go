package vault

import (
	"context"
	"errors"
	"time"
)

// MaxNoteSize is the maximum size of a note after base64 encoding.
const MaxNoteSize = 10000

// ErrNotFound is returned when an item or collection does not exist.
var ErrNotFound = errors.New("not found")

// Item is a vault record as returned by the vault.
type Item struct {
	// ID is the opaque handle used for updates and deletes.
	ID string `json:"id"`
	// Name is the full item name, e.g. "state:a/b.txt".
	Name string `json:"name"`
	// Collection is the collection the item was created in.
	Collection string `json:"collection,omitempty"`
	// Notes is the item content. Empty when the note field is unset.
	Notes string `json:"notes"`
	// RevisionDate is the last modification time reported by the vault.
	RevisionDate time.Time `json:"revisionDate"`
}

// Vault is the set of vault operations needed to reconcile a realm.
//
// GetItems may leave Notes empty; callers that need the content use GetItem.
// All timestamps are returned in UTC.
type Vault interface {
	// GetItems returns all items whose name starts with "<realm>:", keyed by name.
	GetItems(ctx context.Context, realm string) (map[string]Item, error)
	// GetItem returns a single item by name, or ErrNotFound.
	GetItem(ctx context.Context, name string) (*Item, error)
	// CreateItem stores a new item in the given collection.
	CreateItem(ctx context.Context, name, collection, content string) error
	// UpdateItem replaces the content of the item with the given handle.
	UpdateItem(ctx context.Context, id, content string) error
	// DeleteItem removes the item with the given handle.
	DeleteItem(ctx context.Context, id string) error
	// GetCollections returns the collections of a realm, name to handle.
	GetCollections(ctx context.Context, realm string) (map[string]string, error)
	// CreateCollection creates a collection with the given name.
	CreateCollection(ctx context.Context, name string) error
	// DeleteCollection deletes the collection with the given name.
	DeleteCollection(ctx context.Context, name string) error
}
