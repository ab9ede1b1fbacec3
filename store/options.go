package store

import (
	"github.com/hupe1980/zerorec"
	"github.com/hupe1980/zerorec/codec"
	"github.com/hupe1980/zerorec/resource"
)

type options struct {
	logger  *zerorec.Logger
	metrics zerorec.MetricsCollector
	codec   codec.Codec
	rc      *resource.Controller
	verify  bool
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger. Default: zerorec.NoopLogger().
func WithLogger(l *zerorec.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc zerorec.MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithCodec sets the descriptor codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithResource bounds memory, fetch concurrency and IO throughput.
func WithResource(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithVerifyMapped also verifies the checksum of zero-copy records.
// This touches every page of the record on Open.
func WithVerifyMapped() Option {
	return func(o *options) {
		o.verify = true
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = zerorec.NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = zerorec.NoopMetricsCollector{}
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	return o
}
