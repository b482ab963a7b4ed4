// Package otlp holds the OTLP metrics export configuration: the bound
// Properties, the read-only Config contract consumed by exporters, and the
// adapter that applies defaults between the two.
package otlp

import "time"

const (
	DefaultURL                    = "http://localhost:4318/v1/metrics"
	DefaultGRPCURL                = "http://localhost:4317"
	DefaultAggregationTemporality = AggregationTemporalityCumulative
	DefaultBaseTimeUnit           = Milliseconds
	DefaultStep                   = time.Minute
	DefaultTimeout                = 10 * time.Second
	DefaultProtocol               = ProtocolHTTPProtobuf
)

// Config is the configuration an OTLP metrics exporter reads.
type Config interface {
	URL() string
	AggregationTemporality() AggregationTemporality
	ResourceAttributes() map[string]string
	Headers() map[string]string
	BaseTimeUnit() TimeUnit
}

// PushConfig carries the periodic push settings. Exporters type-assert a
// Config for it and fall back to the defaults when it is absent.
type PushConfig interface {
	Enabled() bool
	Step() time.Duration
	Timeout() time.Duration
	Protocol() Protocol
}
