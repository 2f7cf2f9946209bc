package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"vault-sync/core/storage/mocks"
	"vault-sync/core/vault"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bucket = "vault"

func objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func notFound() error {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
}

func TestVault_GetItems(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "sync/")
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	m.On("ListObjects", ctx, bucket, minio.ListObjectsOptions{Prefix: "sync/items/state:", Recursive: true}).
		Return(objects(
			minio.ObjectInfo{Key: "sync/items/state:a/b.txt", LastModified: modified},
			minio.ObjectInfo{Key: "sync/items/state:c.txt", LastModified: modified},
		))

	items, err := v.GetItems(ctx, "state")
	require.NoError(t, err)
	require.Len(t, items, 2)

	item := items["state:a/b.txt"]
	assert.Equal(t, "sync/items/state:a/b.txt", item.ID)
	assert.Equal(t, time.UTC, item.RevisionDate.Location())
	assert.True(t, item.RevisionDate.Equal(modified))
}

func TestVault_GetItemsListError(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "")

	m.On("ListObjects", ctx, bucket, mock.Anything).
		Return(objects(minio.ObjectInfo{Err: errors.New("access denied")}))

	_, err := v.GetItems(ctx, "state")
	assert.ErrorContains(t, err, "access denied")
}

func TestVault_GetItem(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "")
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	m.On("StatObject", ctx, bucket, "items/state:a/b.txt", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{
			Key:          "items/state:a/b.txt",
			LastModified: modified,
			UserMetadata: minio.StringMap{"Collection": "state:a"},
		}, nil)
	m.On("GetObject", ctx, bucket, "items/state:a/b.txt", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("secret: 1\n")), nil)

	item, err := v.GetItem(ctx, "state:a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "secret: 1\n", item.Notes)
	assert.Equal(t, "state:a", item.Collection)
	assert.Equal(t, modified, item.RevisionDate)
}

func TestVault_GetItemMissing(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "")

	m.On("StatObject", ctx, bucket, "items/state:x", mock.Anything).Return(nil, notFound())

	_, err := v.GetItem(ctx, "state:x")
	assert.ErrorIs(t, err, vault.ErrNotFound)
	m.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVault_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("New", func(t *testing.T) {
		m := new(mocks.Client)
		v := New(m, bucket, "")
		m.On("StatObject", ctx, bucket, "items/state:a/b.txt", mock.Anything).Return(nil, notFound())
		m.On("PutObject", ctx, bucket, "items/state:a/b.txt", mock.Anything, int64(5), minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{collectionMeta: "state:a"},
		}).Return(minio.UploadInfo{}, nil)

		require.NoError(t, v.CreateItem(ctx, "state:a/b.txt", "state:a", "hello"))
		m.AssertExpectations(t)
	})

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		v := New(m, bucket, "")
		m.On("StatObject", ctx, bucket, "items/state:a/b.txt", mock.Anything).Return(minio.ObjectInfo{}, nil)

		err := v.CreateItem(ctx, "state:a/b.txt", "state:a", "hello")
		assert.ErrorContains(t, err, "already exists")
		m.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVault_UpdateItemKeepsCollection(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "")

	m.On("StatObject", ctx, bucket, "items/state:a/b.txt", mock.Anything).
		Return(minio.ObjectInfo{UserMetadata: minio.StringMap{"X-Amz-Meta-Collection": "state:a"}}, nil)
	m.On("PutObject", ctx, bucket, "items/state:a/b.txt", mock.Anything, int64(3), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.UserMetadata[collectionMeta] == "state:a"
	})).Return(minio.UploadInfo{}, nil)

	require.NoError(t, v.UpdateItem(ctx, "items/state:a/b.txt", "new"))
	m.AssertExpectations(t)
}

func TestVault_Collections(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "p/")

	m.On("ListObjects", ctx, bucket, minio.ListObjectsOptions{Prefix: "p/collections/pillar:", Recursive: true}).
		Return(objects(minio.ObjectInfo{Key: "p/collections/pillar:users"}))
	m.On("PutObject", ctx, bucket, "p/collections/pillar:web", mock.Anything, int64(0), minio.PutObjectOptions{}).
		Return(minio.UploadInfo{}, nil)
	m.On("RemoveObject", ctx, bucket, "p/collections/pillar:users", minio.RemoveObjectOptions{}).Return(nil)

	cols, err := v.GetCollections(ctx, "pillar")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"pillar:users": "p/collections/pillar:users"}, cols)

	require.NoError(t, v.CreateCollection(ctx, "pillar:web"))
	require.NoError(t, v.DeleteCollection(ctx, "pillar:users"))
	m.AssertExpectations(t)
}

func TestVault_DeleteItem(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	v := New(m, bucket, "")

	m.On("RemoveObject", ctx, bucket, "items/state:a", minio.RemoveObjectOptions{}).Return(errors.New("boom"))

	err := v.DeleteItem(ctx, "items/state:a")
	assert.ErrorContains(t, err, "boom")
}
