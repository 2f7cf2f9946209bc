// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the object-store
// vault backend can be tested with the mocks in core/storage/mocks. Both AWS S3
// and self-hosted MinIO instances are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket on startup.
//   - PutObject / GetObject / StatObject: item and collection objects.
//   - ListObjects: listing by prefix.
//   - RemoveObject: deletions.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage)
package storage
