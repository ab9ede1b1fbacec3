// Package hash provides the CRC32-Castagnoli checksum used to protect record
// blobs in transit to object stores.
//
// For one-shot checksums:
//
//	sum := hash.CRC32C(record)
//
// For S3-style integrity headers:
//
//	header := hash.CRC32CBase64(record)
//
// Go's hash/crc32 uses SSE4.2 / ARM CRC instructions when available.
package hash
