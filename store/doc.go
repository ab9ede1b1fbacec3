// Package store persists finished records in any blobstore.BlobStore and
// opens them again as validated zerorec Views.
//
// Every record blob is written together with a small descriptor blob
// (name + ".layout") holding its layout, size and CRC32C. The descriptor
// is written after the record, so a record is only visible once it is
// complete.
//
//	bs := blobstore.NewLocalStore("/var/lib/records")
//	s := store.New(bs, store.WithLogger(zerorec.NewTextLogger(slog.LevelInfo)))
//
//	if err := s.Put(ctx, "users/42", rec, layout); err != nil {
//	    return err
//	}
//
//	v, layout, err := s.Open(ctx, "users/42")
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
// Blobs from stores that can memory-map (LocalStore, MemoryStore) are
// served without copying. Other blobs are read into memory, charged to the
// resource.Controller's memory budget and verified against the checksum.
package store
