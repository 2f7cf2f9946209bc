// Package vault defines the credential vault capability consumed by the
// reconcile engine.
//
// A vault stores items (named text notes) and collections (named groups of
// items). Item and collection names carry the realm prefix produced by the
// naming package, so "state:a/b.txt" lives in collection "state:a".
//
// # Implementations
//
//   - objectstore: items and collections as objects in an S3/MinIO bucket.
//   - sqlvault: items and collections as rows in a MySQL database (GORM).
//   - memvault: an in-process vault for tests and dry runs.
//
// The mocks subpackage holds a testify mock of the Vault interface.
//
// # Limits
//
// The vault accepts notes up to MaxNoteSize bytes once base64-encoded. The
// engine only warns about larger payloads; the write may then fail and is
// reported per item.
package vault
