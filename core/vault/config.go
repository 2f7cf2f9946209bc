package vault

const (
	// BackendObjectStore keeps items in an S3/MinIO bucket.
	BackendObjectStore = "objectstore"
	// BackendSQL keeps items in MySQL tables.
	BackendSQL = "sql"
	// BackendMemory keeps items in process memory.
	BackendMemory = "memory"
)

// Config selects and configures the vault backend.
type Config struct {
	// Backend is one of objectstore, sql or memory.
	Backend string `mapstructure:"backend" default:"objectstore"`
	// Prefix is prepended to every object key of the objectstore backend.
	Prefix string `mapstructure:"prefix" default:""`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendObjectStore, BackendSQL, BackendMemory:
		return true
	default:
		return false
	}
}
