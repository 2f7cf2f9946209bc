// Package objectstore implements vault.Vault on top of an S3 compatible bucket.
//
// Items are stored as objects "<prefix>items/<name>" whose body is the note
// and whose LastModified is the revision time. The collection of an item is
// kept in the object's user metadata. Collections are zero-byte marker
// objects "<prefix>collections/<name>". Handles are object keys.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"vault-sync/core/naming"
	"vault-sync/core/storage"
	"vault-sync/core/vault"

	"github.com/minio/minio-go/v7"
)

const (
	itemsDir       = "items/"
	collectionsDir = "collections/"
	collectionMeta = "Collection"
	contentType    = "text/plain; charset=utf-8"
)

// Vault stores items and collections in a bucket.
type Vault struct {
	client storage.Client
	bucket string
	prefix string
}

// New creates a vault in the given bucket. All keys start with prefix.
func New(client storage.Client, bucket, prefix string) *Vault {
	return &Vault{client: client, bucket: bucket, prefix: prefix}
}

func (v *Vault) itemKey(name string) string {
	return v.prefix + itemsDir + name
}

func (v *Vault) collectionKey(name string) string {
	return v.prefix + collectionsDir + name
}

// list returns the keys below dir whose name starts with "<realm>:".
func (v *Vault) list(ctx context.Context, dir, realm string) ([]minio.ObjectInfo, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    v.prefix + dir + naming.Prefix(realm),
		Recursive: true,
	}

	var objects []minio.ObjectInfo
	for obj := range v.client.ListObjects(ctx, v.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", opts.Prefix, obj.Err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// GetItems lists the items of a realm. Notes are left empty.
func (v *Vault) GetItems(ctx context.Context, realm string) (map[string]vault.Item, error) {
	objects, err := v.list(ctx, itemsDir, realm)
	if err != nil {
		return nil, err
	}

	items := make(map[string]vault.Item, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, v.prefix+itemsDir)
		items[name] = vault.Item{
			ID:           obj.Key,
			Name:         name,
			RevisionDate: obj.LastModified.UTC(),
		}
	}
	return items, nil
}

// GetItem reads a single item including its note.
func (v *Vault) GetItem(ctx context.Context, name string) (*vault.Item, error) {
	key := v.itemKey(name)
	info, err := v.stat(ctx, key)
	if err != nil {
		return nil, err
	}

	body, err := v.client.GetObject(ctx, v.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer body.Close()

	notes, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return &vault.Item{
		ID:           key,
		Name:         name,
		Collection:   metadata(info, collectionMeta),
		Notes:        string(notes),
		RevisionDate: info.LastModified.UTC(),
	}, nil
}

// CreateItem uploads a new item. An existing item with the same name is an error.
func (v *Vault) CreateItem(ctx context.Context, name, collection, content string) error {
	key := v.itemKey(name)
	if _, err := v.stat(ctx, key); err == nil {
		return fmt.Errorf("item %s already exists", name)
	}
	return v.put(ctx, key, collection, content)
}

// UpdateItem replaces the note of the item with the given key.
func (v *Vault) UpdateItem(ctx context.Context, id, content string) error {
	info, err := v.stat(ctx, id)
	if err != nil {
		return err
	}
	return v.put(ctx, id, metadata(info, collectionMeta), content)
}

// DeleteItem removes the item with the given key.
func (v *Vault) DeleteItem(ctx context.Context, id string) error {
	if err := v.client.RemoveObject(ctx, v.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", id, err)
	}
	return nil
}

// GetCollections lists the collection markers of a realm.
func (v *Vault) GetCollections(ctx context.Context, realm string) (map[string]string, error) {
	objects, err := v.list(ctx, collectionsDir, realm)
	if err != nil {
		return nil, err
	}

	cols := make(map[string]string, len(objects))
	for _, obj := range objects {
		cols[strings.TrimPrefix(obj.Key, v.prefix+collectionsDir)] = obj.Key
	}
	return cols, nil
}

// CreateCollection writes a collection marker.
func (v *Vault) CreateCollection(ctx context.Context, name string) error {
	key := v.collectionKey(name)
	_, err := v.client.PutObject(ctx, v.bucket, key, strings.NewReader(""), 0, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// DeleteCollection removes a collection marker. Items are not touched.
func (v *Vault) DeleteCollection(ctx context.Context, name string) error {
	key := v.collectionKey(name)
	if err := v.client.RemoveObject(ctx, v.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}

func (v *Vault) stat(ctx context.Context, key string) (minio.ObjectInfo, error) {
	info, err := v.client.StatObject(ctx, v.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return info, fmt.Errorf("object %s: %w", key, vault.ErrNotFound)
		}
		return info, fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	return info, nil
}

func (v *Vault) put(ctx context.Context, key, collection, content string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if collection != "" {
		opts.UserMetadata = map[string]string{collectionMeta: collection}
	}
	_, err := v.client.PutObject(ctx, v.bucket, key, strings.NewReader(content), int64(len(content)), opts)
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// metadata looks up a user metadata value regardless of key casing.
func metadata(info minio.ObjectInfo, key string) string {
	for k, val := range info.UserMetadata {
		if strings.EqualFold(k, key) || strings.EqualFold(k, "X-Amz-Meta-"+key) {
			return val
		}
	}
	return ""
}
