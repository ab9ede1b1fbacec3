// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	bs, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("records/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	records := store.New(bs)
//
// # Features
//
//   - Range reads for partial fetches of large records
//   - Multipart uploads for large record files
//   - CRC32C integrity checksums on Put
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
