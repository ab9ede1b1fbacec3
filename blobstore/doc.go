// Package blobstore abstracts where encoded records live.
//
// A BlobStore holds immutable, named blobs. Implementations must be safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - MemoryStore: in-process map, for tests
//   - CachingStore: block cache in front of any other store
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Blobs that implement Mappable expose their bytes without copying, which
// lets callers wrap them in a zero-copy record view.
package blobstore
