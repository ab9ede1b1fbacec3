package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	vfs "github.com/hupe1980/zerorec/internal/fs"
	"github.com/hupe1980/zerorec/internal/mmap"
)

const tmpMarker = ".tmp-"

// LocalStore implements BlobStore using the local file system.
// Blob names are slash-separated paths below the root directory.
type LocalStore struct {
	root string
	fsys vfs.FileSystem
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root, fsys: vfs.Default}
}

// newLocalStoreFS publishes writes through fsys. Reads always use the
// real file system.
func newLocalStoreFS(root string, fsys vfs.FileSystem) *LocalStore {
	return &LocalStore{root: root, fsys: fsys}
}

// Root returns the root directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) (string, error) {
	if name == "" || strings.Contains(name, tmpMarker) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, rel), nil
}

// Open memory-maps a blob for reading. The returned Blob is Mappable.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &localBlob{m: m}, nil
}

// Put writes data to a temp file, syncs it and renames it into place, so
// readers observe either the old or the new blob.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.(*localWritableBlob).abort()
		return err
	}
	return w.Close()
}

// createTemp opens a new temp file next to path.
func (s *LocalStore) createTemp(path string) (vfs.File, error) {
	for range 8 {
		name := path + tmpMarker + strconv.FormatUint(rand.Uint64(), 36)
		f, err := s.fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("blobstore: no free temp name for %q", path)
}

// Create starts an atomic write. The blob appears under name on Close.
func (s *LocalStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := s.fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Temp file in the same directory keeps the rename atomic.
	tmp, err := s.createTemp(path)
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{fsys: s.fsys, tmp: tmp, path: path}, nil
}

// Delete removes a blob. Missing blobs are ignored.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fsys.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the sorted names of all blobs with the given prefix.
// In-flight temp files are skipped.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.Contains(d.Name(), tmpMarker) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return readAt(b.m.Bytes(), p, off)
}

func (b *localBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := b.m.Bytes()
	start, end, err := clipRange(int64(len(data)), off, length)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data[start:end])), nil
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return int64(b.m.Len())
}

func (b *localBlob) Bytes() ([]byte, error) {
	data := b.m.Bytes()
	if data == nil && b.m.Len() > 0 {
		return nil, mmap.ErrClosed
	}
	return data, nil
}

type localWritableBlob struct {
	fsys   vfs.FileSystem
	tmp    vfs.File
	path   string
	closed bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

func (w *localWritableBlob) Sync() error {
	return w.tmp.Sync()
}

// Close syncs the temp file and renames it over the target.
func (w *localWritableBlob) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	tmpName := w.tmp.Name()
	if err := w.tmp.Sync(); err != nil {
		_ = w.tmp.Close()
		_ = w.fsys.Remove(tmpName)
		return err
	}
	if err := w.tmp.Close(); err != nil {
		_ = w.fsys.Remove(tmpName)
		return err
	}
	if err := w.fsys.Rename(tmpName, w.path); err != nil {
		_ = w.fsys.Remove(tmpName)
		return err
	}
	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(filepath.Dir(w.path)); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func (w *localWritableBlob) abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.tmp.Close()
	return w.fsys.Remove(w.tmp.Name())
}
