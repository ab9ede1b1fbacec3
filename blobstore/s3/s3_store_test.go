package s3

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zerorec"
	"github.com/hupe1980/zerorec/blobstore"
	"github.com/hupe1980/zerorec/resource"
	"github.com/hupe1980/zerorec/store"
)

// TestIntegration_S3Store runs against S3_BUCKET with the default AWS
// credential chain. S3_ENDPOINT points it at an S3-compatible server.
func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("S3_BUCKET not set")
	}
	ctx := t.Context()

	opts := []Option{WithPrefix(fmt.Sprintf("zerorec-it-%d/", time.Now().UnixNano()))}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		opts = append(opts, WithEndpoint(endpoint))
	}
	s, err := New(ctx, bucket, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		names, _ := s.List(ctx, "")
		for _, name := range names {
			_ = s.Delete(ctx, name)
		}
	})

	t.Run("StreamedBatch", func(t *testing.T) {
		bb, err := zerorec.NewBatchBuilder(nil, 16)
		require.NoError(t, err)
		for i := range 1 << 16 {
			require.NoError(t, bb.Append(func(w zerorec.QuantumWriter) error {
				return w.PutUint64(0, uint64(i))
			}))
		}
		batch, err := bb.Finish()
		require.NoError(t, err)

		w, err := s.Create(ctx, "batches/0.zd")
		require.NoError(t, err)
		_, err = w.Write(batch)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		b, err := s.Open(ctx, "batches/0.zd")
		require.NoError(t, err)
		defer b.Close()
		assert.Equal(t, int64(len(batch)), b.Size())

		rec := make([]byte, 16)
		off := int64(zerorec.HeaderSize + 1000*16)
		_, err = b.ReadAt(ctx, rec, off)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), zerorec.NewQuantumReader(rec).Uint64(0))
	})

	t.Run("RecordStore", func(t *testing.T) {
		layout := zerorec.Layout{FixedSize: 8, SlotCount: 1}
		bld, err := zerorec.NewBuilderWithLayout(nil, layout)
		require.NoError(t, err)
		require.NoError(t, bld.PutUint64(0, 42))
		require.NoError(t, bld.WriteBytes(layout.SlotOffset(0), bytes.Repeat([]byte("s3"), 100)))
		rec, err := bld.Finish()
		require.NoError(t, err)

		rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
		rs := store.New(s, store.WithResource(rc))
		require.NoError(t, rs.Put(ctx, "records/42", rec, layout))

		names, err := rs.List(ctx, "records/")
		require.NoError(t, err)
		assert.Equal(t, []string{"records/42"}, names)

		v, l, err := rs.Open(ctx, "records/42")
		require.NoError(t, err)
		assert.Equal(t, rec, v.Bytes())
		assert.Equal(t, layout, l)
		assert.Equal(t, int64(len(rec)), rc.MemoryUsage())
		require.NoError(t, v.Close())
		assert.Zero(t, rc.MemoryUsage())

		require.NoError(t, rs.Delete(ctx, "records/42"))
		_, _, err = rs.Open(ctx, "records/42")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
