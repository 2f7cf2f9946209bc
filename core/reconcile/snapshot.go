package reconcile

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"vault-sync/core/naming"
	"vault-sync/core/vault"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Snapshot holds the state of both sides of a realm at the start of a pass.
type Snapshot struct {
	Realm string
	Root  string

	// Files is F, the item ids derived from local files.
	Files map[string]struct{}

	// Items is V, the item ids present in the vault.
	Items map[string]struct{}

	// Collections is the set of known vault collections of the realm.
	// It is nil when no item exists on one side only.
	Collections map[string]struct{}

	// Entries holds one entry per id of F ∪ V, sorted by id.
	Entries []Entry
}

// BuildSnapshot reads both sides of a realm without changing either.
func (e *Engine) BuildSnapshot(ctx context.Context, realm, root string) (*Snapshot, error) {
	if err := (Realm{Name: realm, Path: root}).Validate(); err != nil {
		return nil, err
	}

	info, err := e.fs.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &ConfigurationError{Realm: realm, Reason: fmt.Sprintf("local path %s is not a directory", root)}
	}

	files, err := e.listFiles(realm, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of realm %s: %w", realm, err)
	}

	vaultItems, err := e.vault.GetItems(ctx, realm)
	if err != nil {
		return nil, fmt.Errorf("failed to list vault items of realm %s: %w", realm, err)
	}
	items := make(map[string]struct{}, len(vaultItems))
	for name := range vaultItems {
		items[name] = struct{}{}
	}

	snap := &Snapshot{
		Realm: realm,
		Root:  root,
		Files: files,
		Items: items,
	}

	if hasDifference(files, items) {
		cols, err := e.vault.GetCollections(ctx, realm)
		if err != nil {
			return nil, fmt.Errorf("failed to list collections of realm %s: %w", realm, err)
		}
		snap.Collections = make(map[string]struct{}, len(cols))
		for name := range cols {
			snap.Collections[name] = struct{}{}
		}
	}

	union := make(map[string]struct{}, len(files)+len(items))
	for id := range files {
		union[id] = struct{}{}
	}
	for id := range items {
		union[id] = struct{}{}
	}

	snap.Entries = make([]Entry, 0, len(union))
	for _, id := range naming.Sorted(union) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap.Entries = append(snap.Entries, e.loadEntry(ctx, snap, id))
	}

	return snap, nil
}

// hasDifference reports whether F − V or V − F is non-empty.
func hasDifference(files, items map[string]struct{}) bool {
	for id := range files {
		if _, ok := items[id]; !ok {
			return true
		}
	}
	for id := range items {
		if _, ok := files[id]; !ok {
			return true
		}
	}
	return false
}

// listFiles returns the item ids of all regular files below root,
// including symlinks to regular files.
func (e *Engine) listFiles(realm, root string) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	err := afero.Walk(e.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			e.logger.Warn("Skipping unreadable path", zap.String("realm", realm), zap.String("path", path), zap.Error(err))
			return nil
		}
		if !e.isFile(info, path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[naming.ItemID(realm, rel)] = struct{}{}
		return nil
	})
	return files, err
}

// isFile reports whether path is a regular file or a symlink to one.
// Links to directories are not followed.
func (e *Engine) isFile(info os.FileInfo, path string) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.Mode().IsRegular()
	}
	target, err := e.fs.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

func (e *Engine) loadEntry(ctx context.Context, snap *Snapshot, id string) Entry {
	_, inFiles := snap.Files[id]
	_, inItems := snap.Items[id]

	entry := Entry{ItemID: id}
	switch {
	case inFiles && inItems:
		entry.Relation = RelationBoth
	case inFiles:
		entry.Relation = RelationFileOnly
	default:
		entry.Relation = RelationVaultOnly
	}

	l := e.logger.With(zap.String("realm", snap.Realm), zap.String("item", id))
	l.Debug("Loading item")

	if !naming.CanonicalPath(naming.RelativePath(id)) {
		entry.Problem = "item name does not map to a path inside the realm"
		l.Warn("Skipping item", zap.String("reason", entry.Problem))
		return entry
	}

	if inFiles {
		path := naming.LocalPath(snap.Root, id)
		file, problem := e.loadFile(l, path)
		if problem != "" {
			l.Warn("Skipping item", zap.String("path", path), zap.String("reason", problem))
			entry.Problem = problem
			return entry
		}
		entry.File = file
	}

	if inItems {
		item, err := e.vault.GetItem(ctx, id)
		if err != nil {
			l.Error("Failed to read vault item", zap.Error(err))
			entry.Problem = "vault item could not be read: " + err.Error()
			return entry
		}
		entry.Item = &VaultState{
			ID:      item.ID,
			Size:    utf8.RuneCountInString(item.Notes),
			ModTime: item.RevisionDate.UTC(),
			Content: item.Notes,
		}
	}

	return entry
}

// loadFile reads a file as strict UTF-8 text. It returns a non-empty problem
// when the content cannot be stored as a note without being altered.
func (e *Engine) loadFile(l *zap.Logger, path string) (*FileState, string) {
	info, err := e.fs.Stat(path)
	if err != nil {
		return nil, "file could not be read: " + err.Error()
	}
	raw, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, "file could not be read: " + err.Error()
	}

	if encoded := base64.StdEncoding.EncodedLen(len(raw)); encoded > vault.MaxNoteSize {
		l.Warn("Encoded size probably exceeds the vault maximum",
			zap.String("path", path),
			zap.Int("encoded_size", encoded),
			zap.Int("max_size", vault.MaxNoteSize),
		)
	}

	if !utf8.Valid(raw) {
		return nil, "binary characters in file"
	}
	if bytes.IndexByte(raw, '\r') >= 0 {
		return nil, "non-Unix line breaks in file"
	}

	return &FileState{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
		Content: string(raw),
	}, ""
}
