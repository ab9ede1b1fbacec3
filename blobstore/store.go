package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for names that are empty or escape the store.
var ErrInvalidName = errors.New("blobstore: invalid blob name")

// BlobStore is an abstraction for storing immutable blobs (encoded records
// and their descriptors). Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. It becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// ReadAt reads len(p) bytes at off, with io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange streams length bytes starting at off. The range is clipped
	// to the blob size; an offset past the end returns io.EOF.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes written bytes to durable storage where supported.
	Sync() error
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed and must not be modified.
	Bytes() ([]byte, error)
}

// ReadAll copies the whole blob into a new slice.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	size := b.Size()
	if size < 0 || uint64(size) > uint64(maxInt) {
		return nil, fmt.Errorf("blobstore: blob size %d not addressable", size)
	}
	buf := make([]byte, size)
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == size) {
		return nil, err
	}
	if int64(n) != size {
		return nil, fmt.Errorf("blobstore: short read: %d of %d bytes: %w", n, size, io.ErrUnexpectedEOF)
	}
	return buf, nil
}

const maxInt = int(^uint(0) >> 1)

// clipRange bounds [off, off+length) to a blob of the given size.
func clipRange(size, off, length int64) (int64, int64, error) {
	if off < 0 || length < 0 {
		return 0, 0, fmt.Errorf("blobstore: invalid range off=%d len=%d", off, length)
	}
	if off > size {
		return 0, 0, io.EOF
	}
	end := min(off+length, size)
	if off+length < off {
		end = size
	}
	return off, end, nil
}

// readAt implements io.ReaderAt semantics over a byte slice.
func readAt(data, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("blobstore: negative offset %d", off)
	}
	if off >= int64(len(data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
