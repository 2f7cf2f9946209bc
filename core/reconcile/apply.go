package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vault-sync/core/naming"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600
)

// applyState tracks F, V and the known collections while a plan is applied.
type applyState struct {
	files       map[string]struct{}
	items       map[string]struct{}
	collections map[string]struct{}
}

func newApplyState(snap *Snapshot) *applyState {
	st := &applyState{
		files: copySet(snap.Files),
		items: copySet(snap.Items),
	}
	if snap.Collections != nil {
		st.collections = copySet(snap.Collections)
	}
	return st
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// Apply executes every action of the plan once, in order.
// Failures are logged and recorded on the action; the remaining actions still run.
func (e *Engine) Apply(ctx context.Context, plan *Plan) *Result {
	result := &Result{Plan: plan}
	snap := plan.snapshot
	if snap == nil {
		snap = &Snapshot{Realm: plan.Realm, Root: plan.Root}
	}
	st := newApplyState(snap)

	for i := range plan.Actions {
		action := &plan.Actions[i]
		if !action.Type.Mutates() {
			if action.Type == ActionSkip {
				e.logger.Debug("Skipping item",
					zap.String("realm", plan.Realm),
					zap.String("item", action.ItemID),
					zap.String("reason", action.Reason),
				)
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			action.Error = err.Error()
			result.Failed++
			continue
		}

		if err := e.applyAction(ctx, plan, action, st, result); err != nil {
			e.logger.Error("Action failed",
				zap.String("realm", plan.Realm),
				zap.String("item", action.ItemID),
				zap.String("path", action.Path),
				zap.String("action", string(action.Type)),
				zap.Error(err),
			)
			action.Error = err.Error()
			result.Failed++
			continue
		}
		action.Applied = true
		result.Applied++
	}

	if st.collections != nil {
		e.cleanupCollections(ctx, plan.Realm, st, result)
	}

	return result
}

func (e *Engine) applyAction(ctx context.Context, plan *Plan, action *Action, st *applyState, result *Result) error {
	l := e.logger.With(
		zap.String("realm", plan.Realm),
		zap.String("item", action.ItemID),
		zap.String("path", action.Path),
	)

	switch action.Type {
	case ActionCreateVault:
		e.ensureCollection(ctx, l, action.Collection, st, result)
		l.Info("Creating vault item", zap.String("collection", action.Collection))
		if err := e.vault.CreateItem(ctx, action.ItemID, action.Collection, action.Content); err != nil {
			return err
		}
		st.items[action.ItemID] = struct{}{}

	case ActionDeleteFile:
		l.Info("Deleting file")
		if err := e.deleteFile(plan.Root, action.Path); err != nil {
			return err
		}
		delete(st.files, action.ItemID)

	case ActionCreateFile:
		l.Info("Writing file")
		if err := e.writeFile(action.Path, action.Content, action.ModTime); err != nil {
			return err
		}
		st.files[action.ItemID] = struct{}{}

	case ActionDeleteVault:
		l.Info("Deleting vault item")
		if err := e.vault.DeleteItem(ctx, action.Handle); err != nil {
			return err
		}
		delete(st.items, action.ItemID)

	case ActionOverwriteFile:
		l.Info("Overwriting file with vault content")
		if err := e.writeFile(action.Path, action.Content, action.ModTime); err != nil {
			return err
		}

	case ActionOverwriteVault:
		l.Info("Updating vault item with file content")
		if err := e.vault.UpdateItem(ctx, action.Handle, action.Content); err != nil {
			return err
		}
	}
	return nil
}

// ensureCollection creates a missing collection. A failure is logged only;
// the item creation that follows reports the real outcome.
func (e *Engine) ensureCollection(ctx context.Context, l *zap.Logger, name string, st *applyState, result *Result) {
	if st.collections == nil {
		st.collections = make(map[string]struct{})
	}
	if _, ok := st.collections[name]; ok {
		return
	}
	l.Info("Creating collection", zap.String("collection", name))
	if err := e.vault.CreateCollection(ctx, name); err != nil {
		l.Error("Failed to create collection", zap.String("collection", name), zap.Error(err))
		return
	}
	st.collections[name] = struct{}{}
	result.CollectionsCreated = append(result.CollectionsCreated, name)
}

// cleanupCollections deletes the known collections no item of V maps to.
func (e *Engine) cleanupCollections(ctx context.Context, realm string, st *applyState, result *Result) {
	needed := naming.CollectionIDs(st.items)
	for _, name := range naming.Sorted(st.collections) {
		if _, ok := needed[name]; ok {
			continue
		}
		l := e.logger.With(zap.String("realm", realm), zap.String("collection", name))
		l.Info("Deleting empty collection")
		if err := e.vault.DeleteCollection(ctx, name); err != nil {
			l.Error("Failed to delete collection", zap.Error(err))
			continue
		}
		result.CollectionsDeleted = append(result.CollectionsDeleted, name)
	}
}

// writeFile writes content, creating parent directories, and sets the
// modification time when one is given.
func (e *Engine) writeFile(path, content string, modTime time.Time) error {
	if err := e.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}
	if err := afero.WriteFile(e.fs, path, []byte(content), filePerm); err != nil {
		return err
	}
	if modTime.IsZero() {
		return nil
	}
	return e.fs.Chtimes(path, modTime, modTime)
}

// deleteFile removes a file and then every parent directory that became
// empty, stopping at the realm root.
func (e *Engine) deleteFile(root, path string) error {
	if err := e.fs.Remove(path); err != nil {
		return err
	}

	for dir := filepath.Dir(path); insideRoot(root, dir); dir = filepath.Dir(dir) {
		entries, err := afero.ReadDir(e.fs, dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := e.fs.Remove(dir); err != nil {
			e.logger.Warn("Failed to remove empty directory", zap.String("path", dir), zap.Error(err))
			break
		}
	}
	return nil
}

// insideRoot reports whether dir lies strictly below root.
func insideRoot(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
