// Package watch keeps realms synchronized while the process runs.
//
// Every realm root is watched recursively with fsnotify. A change below a
// root schedules a sync of that realm once no further change arrived for the
// debounce period. Vault-side changes produce no events, so all realms are
// also synchronized every interval.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vault-sync/core/reconcile"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SyncFunc synchronizes the given realms.
type SyncFunc func(ctx context.Context, realms []reconcile.Realm) error

// Options controls the timings of a Watcher.
type Options struct {
	// Debounce is the quiet time after the last change before a realm is synced.
	Debounce time.Duration
	// Interval is the period of full syncs. Zero disables them.
	Interval time.Duration
}

// pending is an armed debounce timer. gen identifies the scheduling that
// armed it; callbacks of replaced timers see a different gen and do nothing.
type pending struct {
	timer *time.Timer
	gen   uint64
}

// Watcher triggers syncs on file changes and periodically.
type Watcher struct {
	realms []reconcile.Realm
	syncFn SyncFunc
	logger *zap.Logger
	opts   Options

	mu     sync.Mutex
	timers map[string]pending
	gen    uint64
	due    chan string
	stop   chan struct{}
}

// New creates a watcher for the given realms.
func New(realms []reconcile.Realm, fn SyncFunc, logger *zap.Logger, opts Options) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		realms: realms,
		syncFn: fn,
		logger: logger,
		opts:   opts,
		timers: make(map[string]pending),
		due:    make(chan string, len(realms)),
		stop:   make(chan struct{}),
	}
}

// Run watches until ctx is cancelled. Sync failures are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()
	defer w.shutdown()

	for _, realm := range w.realms {
		if err := w.addTree(fsw, realm.Path); err != nil {
			return fmt.Errorf("failed to watch realm %s: %w", realm.Name, err)
		}
	}

	var tick <-chan time.Time
	if w.opts.Interval > 0 {
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.logger.Info("Watching realms",
		zap.Int("realms", len(w.realms)),
		zap.Duration("debounce", w.opts.Debounce),
		zap.Duration("interval", w.opts.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case name := <-w.due:
			if realm, ok := w.realm(name); ok {
				w.run(ctx, []reconcile.Realm{realm})
			}

		case <-tick:
			w.run(ctx, w.realms)
		}
	}
}

func (w *Watcher) run(ctx context.Context, realms []reconcile.Realm) {
	if err := w.syncFn(ctx, realms); err != nil {
		w.logger.Error("Sync failed", zap.Error(err))
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	if event.Has(fsnotify.Create) {
		// New directories need their own watch.
		if err := w.addTree(fsw, event.Name); err != nil {
			w.logger.Warn("Failed to watch directory", zap.String("path", event.Name), zap.Error(err))
		}
	}

	realm, ok := w.realmFor(event.Name)
	if !ok {
		return
	}
	w.logger.Debug("Change detected", zap.String("realm", realm.Name), zap.String("path", event.Name))
	w.schedule(realm.Name)
}

// schedule (re)starts the debounce timer of a realm.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.timers[name]; ok {
		p.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.timers[name] = pending{
		gen:   gen,
		timer: time.AfterFunc(w.opts.Debounce, func() { w.fire(name, gen) }),
	}
}

// fire queues a realm sync unless the timer was replaced in the meantime.
func (w *Watcher) fire(name string, gen uint64) {
	w.mu.Lock()
	p, ok := w.timers[name]
	if !ok || p.gen != gen {
		w.mu.Unlock()
		return
	}
	delete(w.timers, name)
	w.mu.Unlock()

	select {
	case w.due <- name:
	case <-w.stop:
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, p := range w.timers {
		p.timer.Stop()
		delete(w.timers, name)
	}
	close(w.stop)
}

// addTree watches dir and every directory below it. Paths that are not
// directories are ignored.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) realm(name string) (reconcile.Realm, bool) {
	for _, r := range w.realms {
		if r.Name == name {
			return r, true
		}
	}
	return reconcile.Realm{}, false
}

// realmFor returns the realm whose root contains path, preferring the deepest root.
func (w *Watcher) realmFor(path string) (reconcile.Realm, bool) {
	var best reconcile.Realm
	found := false
	for _, r := range w.realms {
		root := filepath.Clean(r.Path)
		if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
			continue
		}
		if !found || len(root) > len(filepath.Clean(best.Path)) {
			best, found = r, true
		}
	}
	return best, found
}
