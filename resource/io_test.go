package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	r := NewRateLimitedReader(t.Context(), strings.NewReader("record bytes"), c)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "record bytes", string(data))
}

func TestRateLimitedReader_Canceled(t *testing.T) {
	// A tiny bucket forces WaitN to block, so the canceled context wins.
	c := NewController(Config{IOLimitBytesPerSec: 1})
	require.True(t, c.TryAcquireIO(1))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := NewRateLimitedReader(ctx, strings.NewReader("xy"), c)
	_, err := r.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestRateLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewRateLimitedWriter(t.Context(), &buf, nil)

	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", buf.String())
}
