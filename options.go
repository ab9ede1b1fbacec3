package zerorec

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	noMmap           bool
	validate         bool
	access           AccessPattern
}

// Option configures Open.
type Option func(*options)

// WithoutMmap reads the file into memory instead of mapping it.
// The resulting View behaves identically; only Mapped differs.
func WithoutMmap() Option {
	return func(o *options) {
		o.noMmap = true
	}
}

// WithValidation makes Open validate the record header and fail on a
// malformed file instead of leaving that to the caller.
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

// WithAccessPattern advises the kernel how the mapped file will be read.
// It has no effect when the file is not mapped.
//
// Example for a batch file scanned front to back:
//
//	v, _ := zerorec.Open("rows.zd", zerorec.WithAccessPattern(zerorec.AccessSequential))
func WithAccessPattern(p AccessPattern) Option {
	return func(o *options) {
		o.access = p
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &zerorec.BasicMetricsCollector{}
//	v, _ := zerorec.Open(path, zerorec.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("opens: %d, mapped: %d\n", stats.OpenCount, stats.OpenMapped)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		access:           AccessDefault,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
