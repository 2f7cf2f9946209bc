// Package config provides configuration management for vault-sync.
//
// It utilizes Viper for loading configuration from layered YAML files and
// environment variables, with defaults declared in `default` struct tags.
//
// # Sources
//
// Later sources override earlier ones:
//   - /etc/vault-sync/config.yaml
//   - <dir>/config.yaml
//   - files passed with --config
//   - environment variables (and <dir>/.env), e.g. SYNC_AUTO_CREATE_LOCALLY
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Storage: S3/MinIO credentials and bucket of the objectstore backend
//   - Database: MySQL connection details of the sql backend
//   - Vault: backend selection and key prefix
//   - Sync: automatic directions, stamp file and watch timings
//   - Realms: realm name to local directory
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	realms, err := cfg.Realms()
package config
