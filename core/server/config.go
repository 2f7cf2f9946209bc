package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// SyncTimeoutSeconds bounds a sync pass triggered over HTTP.
	SyncTimeoutSeconds int `mapstructure:"sync_timeout_seconds" default:"300"`
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SyncTimeout returns the pass timeout, falling back to five minutes.
func (c Config) SyncTimeout() time.Duration {
	if c.SyncTimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SyncTimeoutSeconds) * time.Second
}

// Secured reports whether requests must carry the API key.
func (c Config) Secured() bool {
	return c.ApiKey != ""
}
