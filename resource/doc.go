// Package resource bounds the resources a record store may consume.
//
// Three limits are managed:
//
//   - Memory: bytes of record data held in heap copies when a blob cannot be
//     memory mapped (non-blocking, fail-fast)
//   - Fetch concurrency: how many blobs may be opened/read at once
//   - IO: token-bucket rate limit on bytes moved to and from a blob store
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxConcurrentFetch: 8,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireFetch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseFetch()
//
//	if err := rc.AcquireIO(ctx, len(record)); err != nil {
//	    return err
//	}
//
// All methods are safe for concurrent use, and a nil *Controller is a valid
// controller that imposes no limits.
package resource
