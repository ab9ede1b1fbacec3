package zerorec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()
	l.WithName("users/1").WithLayout(Layout{FixedSize: 8, SlotCount: 2}).LogPut(ctx, "users/1", 64, nil)
	assert.Contains(t, buf.String(), `"msg":"put completed"`)
	assert.Contains(t, buf.String(), `"fixed_size":8`)
	assert.Contains(t, buf.String(), `"slot_count":2`)

	buf.Reset()
	l.WithPath("/tmp/x").LogOpen(ctx, "/tmp/x", 0, false, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	NoopLogger().LogScan(ctx, 10, 2, nil)
	assert.Empty(t, buf.String())
}

func TestOpenLogs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := NewHeader().Bytes()
	v, err := Open(writeRecordFile(t, h[:]), WithLogger(l), WithoutMmap())
	require.NoError(t, err)
	defer v.Close()

	assert.Contains(t, buf.String(), "open completed")
	assert.Contains(t, buf.String(), "mapped=false")
}
