package config

import (
	"time"

	"vault-sync/core/reconcile"
)

// SyncConfig holds the synchronization settings.
type SyncConfig struct {
	// AutoCreateLocally writes vault-only items to disk without asking.
	AutoCreateLocally bool `mapstructure:"auto_create_locally" default:"false"`
	// AutoUpdateLocally overwrites differing files with the vault content without asking.
	AutoUpdateLocally bool `mapstructure:"auto_update_locally" default:"false"`
	// AutoDeleteLocally deletes file-only items without asking.
	AutoDeleteLocally bool `mapstructure:"auto_delete_locally" default:"false"`
	// Interactive asks on the terminal for every undecided item.
	Interactive bool `mapstructure:"interactive" default:"true"`
	// FolderPrivate is the base directory of the default realms.
	FolderPrivate string `mapstructure:"folder_private" default:"~/saltx/private"`
	// Prefix names the private state and pillar subfolders ("<prefix>_private").
	Prefix string `mapstructure:"prefix" default:""`
	// StampFile records the time of the last successful sync.
	StampFile string `mapstructure:"stamp_file" default:"~/saltx/last_update_private"`
	// MinInterval is the age below which "sync --if-stale" does nothing.
	MinInterval time.Duration `mapstructure:"min_interval" default:"1h"`
	// WatchDebounce is the quiet time after a file change before a realm is synced.
	WatchDebounce time.Duration `mapstructure:"watch_debounce" default:"2s"`
	// WatchInterval is the period of full syncs in watch mode.
	WatchInterval time.Duration `mapstructure:"watch_interval" default:"5m"`
}

// Options converts the settings into engine options.
func (c SyncConfig) Options(dryRun bool) reconcile.Options {
	return reconcile.Options{
		AutoCreateLocally: c.AutoCreateLocally,
		AutoUpdateLocally: c.AutoUpdateLocally,
		AutoDeleteLocally: c.AutoDeleteLocally,
		DryRun:            dryRun,
	}
}
