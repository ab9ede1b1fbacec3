// Package mem allocates cache-line aligned buffers.
//
// Records that are copied into the Go heap (file fallback when mmap is not
// available, blobs from remote stores) land in 64-byte aligned buffers, so
// fixed fields and arrays inside them keep the alignment they would have in
// a page-aligned mapping.
package mem
