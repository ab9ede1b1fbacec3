package minio

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zerorec/blobstore"
)

func TestStore_Keys(t *testing.T) {
	s := NewStore(nil, "bucket", "/records/")
	assert.Equal(t, "records/a.zd", s.key("a.zd"))
	assert.Equal(t, "records/", s.key(""))

	name, ok := s.relName("records/sub/a.zd")
	assert.True(t, ok)
	assert.Equal(t, "sub/a.zd", name)

	_, ok = s.relName("records2/a.zd")
	assert.False(t, ok)

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "a.zd", bare.key("a.zd"))
	name, ok = bare.relName("a.zd")
	assert.True(t, ok)
	assert.Equal(t, "a.zd", name)
}

func TestStore_InvalidName(t *testing.T) {
	s := NewStore(nil, "bucket", "")
	ctx := context.Background()

	_, err := s.Open(ctx, "")
	assert.ErrorIs(t, err, blobstore.ErrInvalidName)
	assert.ErrorIs(t, s.Put(ctx, "/abs", nil), blobstore.ErrInvalidName)
	_, err = s.Create(ctx, "")
	assert.ErrorIs(t, err, blobstore.ErrInvalidName)
	assert.ErrorIs(t, s.Delete(ctx, ""), blobstore.ErrInvalidName)
}

func TestBlob_Bounds(t *testing.T) {
	b := &minioBlob{bucket: "bucket", key: "k", size: 10}
	ctx := context.Background()

	n, err := b.ReadAt(ctx, nil, 3)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = b.ReadAt(ctx, make([]byte, 1), 10)
	assert.ErrorIs(t, err, io.EOF)

	_, err = b.ReadAt(ctx, make([]byte, 1), -1)
	assert.Error(t, err)

	rc, err := b.ReadRange(ctx, 10, 4)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = b.ReadRange(ctx, 11, 1)
	assert.ErrorIs(t, err, io.EOF)
}
