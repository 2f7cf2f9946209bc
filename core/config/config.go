package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"vault-sync/core/database"
	"vault-sync/core/logger"
	"vault-sync/core/reconcile"
	"vault-sync/core/server"
	"vault-sync/core/storage"
	"vault-sync/core/vault"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SystemFile is the machine wide configuration file, read first.
const SystemFile = "/etc/vault-sync/config.yaml"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Vault selects the vault backend.
	Vault vault.Config `mapstructure:"vault"`
	// Sync holds the synchronization settings.
	Sync SyncConfig `mapstructure:"sync"`
	// RealmPaths maps realm names to local directories.
	RealmPaths map[string]string `mapstructure:"realms"`
}

// Options controls where LoadConfig looks for files.
type Options struct {
	// Dir holds the .env and config.yaml files.
	Dir string
	// SystemFile overrides SystemFile; "-" disables it.
	SystemFile string
	// Files are read last, in order; each must exist.
	Files []string
}

// LoadConfig loads configuration from the .env file, environment variables
// and config.yaml in path.
func LoadConfig(path string) (*Config, error) {
	return Load(Options{Dir: path})
}

// Load reads the layered configuration. YAML files are merged in the order
// system file, <dir>/config.yaml, extra files; environment variables win
// over every file.
func Load(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	v.SetConfigType("yaml")

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	system := opts.SystemFile
	if system == "" {
		system = SystemFile
	}
	for _, file := range []string{system, filepath.Join(dir, "config.yaml")} {
		if file == "-" {
			continue
		}
		if err := mergeFile(v, file, true); err != nil {
			return nil, err
		}
	}
	for _, file := range opts.Files {
		if err := mergeFile(v, file, false); err != nil {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if !config.Vault.IsValidBackend() {
		return nil, fmt.Errorf("unsupported vault backend %q", config.Vault.Backend)
	}

	return &config, nil
}

func mergeFile(v *viper.Viper, file string, optional bool) error {
	f, err := os.Open(file)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", file, err)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Map:
			// Maps only come from files; an empty default would not decode.
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

// Realms returns the configured realms sorted by name, with paths expanded.
// Without a realms section the saltx, pillar and state realms below
// sync.folder_private are used.
func (c *Config) Realms() ([]reconcile.Realm, error) {
	paths := c.RealmPaths
	if len(paths) == 0 {
		paths = c.defaultRealmPaths()
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	realms := make([]reconcile.Realm, 0, len(names))
	for _, name := range names {
		path, err := ExpandHome(paths[name])
		if err != nil {
			return nil, err
		}
		realms = append(realms, reconcile.Realm{Name: name, Path: path})
	}

	if err := reconcile.ValidateRealms(realms); err != nil {
		return nil, err
	}
	return realms, nil
}

func (c *Config) defaultRealmPaths() map[string]string {
	private := "private"
	if c.Sync.Prefix != "" {
		private = c.Sync.Prefix + "_private"
	}
	base := c.Sync.FolderPrivate
	return map[string]string{
		"saltx":  filepath.Join(base, "saltx"),
		"pillar": filepath.Join(base, "pillar", private),
		"state":  filepath.Join(base, "state", private),
	}
}

// SelectRealms returns the named realms in the order given, or all realms
// when names is empty.
func (c *Config) SelectRealms(names []string) ([]reconcile.Realm, error) {
	realms, err := c.Realms()
	if err != nil || len(names) == 0 {
		return realms, err
	}

	byName := make(map[string]reconcile.Realm, len(realms))
	for _, r := range realms {
		byName[r.Name] = r
	}

	selected := make([]reconcile.Realm, 0, len(names))
	for _, name := range names {
		r, ok := byName[name]
		if !ok {
			return nil, &reconcile.ConfigurationError{Realm: name, Reason: "not configured"}
		}
		selected = append(selected, r)
	}
	return selected, nil
}

// ExpandHome replaces a leading "~" with the home directory of the current user.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
