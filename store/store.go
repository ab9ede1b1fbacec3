package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/zerorec"
	"github.com/hupe1980/zerorec/blobstore"
	"github.com/hupe1980/zerorec/internal/hash"
	"github.com/hupe1980/zerorec/internal/mem"
	"github.com/hupe1980/zerorec/resource"
)

// Store keeps records and their descriptors in a BlobStore.
// It is safe for concurrent use.
type Store struct {
	bs   blobstore.BlobStore
	opts options
}

// New creates a Store over bs.
func New(bs blobstore.BlobStore, opts ...Option) *Store {
	return &Store{bs: bs, opts: applyOptions(opts)}
}

// Entry is a record opened by OpenMany.
type Entry struct {
	Name   string
	View   *zerorec.View
	Layout zerorec.Layout
}

func validateName(name string) error {
	if name == "" || strings.HasSuffix(name, DescriptorSuffix) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Put stores a finished record. The record must carry a valid header and
// be at least layout.MinSize() bytes long.
func (s *Store) Put(ctx context.Context, name string, record []byte, layout zerorec.Layout) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metrics.RecordPut(len(record), time.Since(start), err)
		s.opts.logger.WithLayout(layout).LogPut(ctx, name, len(record), err)
	}()

	if err := validateName(name); err != nil {
		return err
	}
	rec, err := zerorec.NewRecord(record, layout)
	if err != nil {
		return err
	}

	desc := Descriptor{
		Codec:     s.opts.codec.Name(),
		FixedSize: layout.FixedSize,
		SlotCount: layout.SlotCount,
		Size:      int64(len(record)),
		HasHeap:   rec.Header().HasHeap(),
		CRC32C:    hash.CRC32C(record),
	}
	meta, err := s.opts.codec.Marshal(desc)
	if err != nil {
		return fmt.Errorf("store: encode descriptor: %w", err)
	}

	if err := s.opts.rc.AcquireIO(ctx, len(record)+len(meta)); err != nil {
		return err
	}
	if err := s.bs.Put(ctx, name, record); err != nil {
		return err
	}
	// The descriptor commits the record.
	return s.bs.Put(ctx, descriptorName(name), meta)
}

// Stat returns the descriptor of a stored record.
func (s *Store) Stat(ctx context.Context, name string) (Descriptor, error) {
	if err := validateName(name); err != nil {
		return Descriptor{}, err
	}
	b, err := s.bs.Open(ctx, descriptorName(name))
	if err != nil {
		return Descriptor{}, err
	}
	defer b.Close()

	data, err := blobstore.ReadAll(ctx, b)
	if err != nil {
		return Descriptor{}, err
	}
	return decodeDescriptor(s.opts.codec, data)
}

// Open returns a View over a stored record and its layout. The caller must
// close the View.
func (s *Store) Open(ctx context.Context, name string) (v *zerorec.View, l zerorec.Layout, err error) {
	start := time.Now()
	size := 0
	zeroCopy := false
	defer func() {
		s.opts.metrics.RecordGet(size, zeroCopy, time.Since(start), err)
		s.opts.logger.LogGet(ctx, name, size, zeroCopy, err)
	}()

	if err := s.opts.rc.AcquireFetch(ctx); err != nil {
		return nil, zerorec.Layout{}, err
	}
	defer s.opts.rc.ReleaseFetch()

	desc, err := s.Stat(ctx, name)
	if err != nil {
		return nil, zerorec.Layout{}, err
	}
	l = desc.Layout()

	b, err := s.bs.Open(ctx, name)
	if err != nil {
		return nil, zerorec.Layout{}, err
	}
	if b.Size() != desc.Size {
		_ = b.Close()
		return nil, zerorec.Layout{}, fmt.Errorf("%w: %q is %d bytes, descriptor says %d", ErrSizeMismatch, name, b.Size(), desc.Size)
	}

	v, zeroCopy, err = s.view(ctx, b, desc)
	if err != nil {
		return nil, zerorec.Layout{}, err
	}
	size = v.Len()

	if _, err := v.Record(l); err != nil {
		_ = v.Close()
		return nil, zerorec.Layout{}, err
	}
	return v, l, nil
}

// view builds a View over b. b is owned by the View on success and closed
// on failure.
func (s *Store) view(ctx context.Context, b blobstore.Blob, desc Descriptor) (*zerorec.View, bool, error) {
	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err == nil {
			if s.opts.verify {
				if err := verify(data, desc); err != nil {
					_ = b.Close()
					return nil, false, err
				}
			}
			return zerorec.Wrap(data, b), true, nil
		}
	}

	// Blobs are read fully into the heap, charged against the memory budget.
	defer b.Close()

	if err := s.opts.rc.AcquireMemory(desc.Size); err != nil {
		return nil, false, err
	}
	data, err := s.readAll(ctx, b, desc.Size)
	if err == nil {
		err = verify(data, desc)
	}
	if err != nil {
		s.opts.rc.ReleaseMemory(desc.Size)
		return nil, false, err
	}
	return zerorec.Wrap(data, memoryRelease{rc: s.opts.rc, n: desc.Size}), false, nil
}

func (s *Store) readAll(ctx context.Context, b blobstore.Blob, size int64) ([]byte, error) {
	rc, err := b.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return mem.ReadFull(resource.NewRateLimitedReader(ctx, rc, s.opts.rc), size)
}

func verify(data []byte, desc Descriptor) error {
	if sum := hash.CRC32C(data); sum != desc.CRC32C {
		return fmt.Errorf("%w: got %08x, want %08x", ErrChecksumMismatch, sum, desc.CRC32C)
	}
	return nil
}

// memoryRelease returns a heap copy's reservation when its View closes.
type memoryRelease struct {
	rc *resource.Controller
	n  int64
}

func (m memoryRelease) Close() error {
	m.rc.ReleaseMemory(m.n)
	return nil
}

// OpenMany opens records concurrently. On error every View opened so far
// is closed. Entries keep the order of names.
func (s *Store) OpenMany(ctx context.Context, names []string) ([]Entry, error) {
	entries := make([]Entry, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(max(s.opts.rc.Config().MaxConcurrentFetch, 4)))
	for i, name := range names {
		g.Go(func() error {
			v, l, err := s.Open(gctx, name)
			if err != nil {
				return fmt.Errorf("open %q: %w", name, err)
			}
			entries[i] = Entry{Name: name, View: v, Layout: l}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, e := range entries {
			if e.View != nil {
				_ = e.View.Close()
			}
		}
		return nil, err
	}
	return entries, nil
}

// Delete removes a record. The descriptor goes first so readers never
// find a descriptor without its record. Deleting a missing record is not
// an error.
func (s *Store) Delete(ctx context.Context, name string) (err error) {
	defer func() {
		s.opts.logger.LogDelete(ctx, name, err)
	}()

	if err := validateName(name); err != nil {
		return err
	}
	if err := s.bs.Delete(ctx, descriptorName(name)); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}
	if err := s.bs.Delete(ctx, name); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}
	return nil
}

// List returns the sorted names of committed records with the given
// prefix. Descriptors and records without a descriptor are omitted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.bs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	slices.Sort(names)

	var records []string
	for _, name := range names {
		if strings.HasSuffix(name, DescriptorSuffix) {
			continue
		}
		if _, ok := slices.BinarySearch(names, descriptorName(name)); ok {
			records = append(records, name)
		}
	}
	return records, nil
}
