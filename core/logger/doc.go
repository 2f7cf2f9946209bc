// Package logger builds the zap logger used across vault-sync.
//
// The level selects the zap preset: "debug" uses the development config
// (ISO8601 timestamps and caller), every other level the
// production config. Format switches between json and console encoding.
//
// When File is set, output goes to that file through lumberjack, rotated by
// size and pruned by count and age. Sync passes started from cron or the
// watch command usually log this way.
//
// HTTP handlers derive a request logger with WithRayID, which adds the
// ray_id field set by the rayid middleware.
package logger
