package zerorec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordOpen is called after a View is opened from a file.
	// mapped reports whether the bytes are memory-mapped.
	RecordOpen(size int, mapped bool, duration time.Duration, err error)

	// RecordPut is called after a record is written to a store.
	RecordPut(size int, duration time.Duration, err error)

	// RecordGet is called after a record is loaded from a store.
	// zeroCopy reports whether the view aliases backend memory.
	RecordGet(size int, zeroCopy bool, duration time.Duration, err error)

	// RecordScan is called after a parallel batch scan.
	RecordScan(records int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordPut(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordGet(int, bool, time.Duration, error)  {}
func (NoopMetricsCollector) RecordScan(int, time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	OpenCount      atomic.Int64
	OpenMapped     atomic.Int64
	OpenErrors     atomic.Int64
	OpenBytes      atomic.Int64
	PutCount       atomic.Int64
	PutErrors      atomic.Int64
	PutBytes       atomic.Int64
	PutTotalNanos  atomic.Int64
	GetCount       atomic.Int64
	GetZeroCopy    atomic.Int64
	GetErrors      atomic.Int64
	GetBytes       atomic.Int64
	GetTotalNanos  atomic.Int64
	ScanCount      atomic.Int64
	ScanRecords    atomic.Int64
	ScanErrors     atomic.Int64
	ScanTotalNanos atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(size int, mapped bool, _ time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
		return
	}
	b.OpenBytes.Add(int64(size))
	if mapped {
		b.OpenMapped.Add(1)
	}
}

// RecordPut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPut(size int, duration time.Duration, err error) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PutErrors.Add(1)
		return
	}
	b.PutBytes.Add(int64(size))
}

// RecordGet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGet(size int, zeroCopy bool, duration time.Duration, err error) {
	b.GetCount.Add(1)
	b.GetTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GetErrors.Add(1)
		return
	}
	b.GetBytes.Add(int64(size))
	if zeroCopy {
		b.GetZeroCopy.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(records int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanRecords.Add(int64(records))
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	stats := MetricsStats{
		OpenCount:   b.OpenCount.Load(),
		OpenMapped:  b.OpenMapped.Load(),
		OpenErrors:  b.OpenErrors.Load(),
		PutCount:    b.PutCount.Load(),
		PutErrors:   b.PutErrors.Load(),
		PutBytes:    b.PutBytes.Load(),
		GetCount:    b.GetCount.Load(),
		GetZeroCopy: b.GetZeroCopy.Load(),
		GetErrors:   b.GetErrors.Load(),
		GetBytes:    b.GetBytes.Load(),
		ScanCount:   b.ScanCount.Load(),
		ScanRecords: b.ScanRecords.Load(),
		ScanErrors:  b.ScanErrors.Load(),
	}
	if stats.PutCount > 0 {
		stats.PutAvgNanos = b.PutTotalNanos.Load() / stats.PutCount
	}
	if stats.GetCount > 0 {
		stats.GetAvgNanos = b.GetTotalNanos.Load() / stats.GetCount
	}
	if stats.ScanCount > 0 {
		stats.ScanAvgNanos = b.ScanTotalNanos.Load() / stats.ScanCount
	}
	return stats
}

// MetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type MetricsStats struct {
	OpenCount    int64
	OpenMapped   int64
	OpenErrors   int64
	PutCount     int64
	PutErrors    int64
	PutBytes     int64
	PutAvgNanos  int64
	GetCount     int64
	GetZeroCopy  int64
	GetErrors    int64
	GetBytes     int64
	GetAvgNanos  int64
	ScanCount    int64
	ScanRecords  int64
	ScanErrors   int64
	ScanAvgNanos int64
}
