// Package fs abstracts the file system operations LocalStore uses to
// publish blobs, so tests can inject I/O faults.
//
//   - [LocalFS]: production implementation over the os package
//   - [FaultyFS]: wraps a FileSystem and fails writes, syncs, closes or
//     renames of matching files
//
// Reads never go through this package: blobs are memory-mapped by path.
//
// Filesystem calls take no context.Context. Local syscalls cannot be
// interrupted, so cancellation is checked by callers between calls.
package fs
