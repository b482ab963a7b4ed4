// Package registry builds an OpenTelemetry MeterProvider that pushes to an
// OTLP endpoint described by an otlp.Config.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

type Option func(*options)

type options struct {
	logger *zap.Logger
}

func WithLogger(lg *zap.Logger) Option {
	return func(o *options) { o.logger = lg }
}

// Registry owns the MeterProvider and the OTLP exporter behind it.
type Registry struct {
	cfg      otlp.Config
	logger   *zap.Logger
	provider metric.MeterProvider
	sdk      *sdkmetric.MeterProvider

	shutdownOnce sync.Once
	shutdownErr  error
}

func New(ctx context.Context, cfg otlp.Config, opts ...Option) (*Registry, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	push := otlp.PushSettings(cfg)
	r := &Registry{cfg: cfg, logger: o.logger}

	if !push.Enabled() {
		r.logger.Info("otlp metrics export disabled")
		r.provider = noop.NewMeterProvider()
		return r, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg.ResourceAttributes())...))
	if err != nil {
		return nil, fmt.Errorf("otlp metrics resource: %w", err)
	}

	exp, err := newExporter(ctx, cfg, push)
	if err != nil {
		return nil, fmt.Errorf("otlp metric exporter: %w", err)
	}

	r.sdk = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp,
			sdkmetric.WithInterval(push.Step()),
			sdkmetric.WithTimeout(push.Timeout()),
		)),
	)
	r.provider = r.sdk
	url := cfg.URL()
	if push.Protocol() == otlp.ProtocolGRPC {
		url = GRPCEndpointURL(url)
	}
	r.logger.Info("otlp metrics export started",
		zap.String("url", url),
		zap.Stringer("protocol", push.Protocol()),
		zap.Stringer("temporality", cfg.AggregationTemporality()),
		zap.Duration("step", push.Step()),
	)
	return r, nil
}

func newExporter(ctx context.Context, cfg otlp.Config, push otlp.PushConfig) (sdkmetric.Exporter, error) {
	selector := TemporalitySelector(cfg.AggregationTemporality())
	if push.Protocol() == otlp.ProtocolGRPC {
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpointURL(GRPCEndpointURL(cfg.URL())),
			otlpmetricgrpc.WithHeaders(cfg.Headers()),
			otlpmetricgrpc.WithTimeout(push.Timeout()),
			otlpmetricgrpc.WithTemporalitySelector(selector),
		)
	}
	return otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(cfg.URL()),
		otlpmetrichttp.WithHeaders(cfg.Headers()),
		otlpmetrichttp.WithTimeout(push.Timeout()),
		otlpmetrichttp.WithTemporalitySelector(selector),
	)
}

// GRPCEndpointURL sends the OTLP/HTTP default URL to the OTLP/gRPC default
// port instead. Explicit URLs pass through.
func GRPCEndpointURL(u string) string {
	if u == otlp.DefaultURL {
		return otlp.DefaultGRPCURL
	}
	return u
}

// TemporalitySelector maps the configured temporality onto SDK instrument
// kinds. Up-down counters always stay cumulative.
func TemporalitySelector(t otlp.AggregationTemporality) sdkmetric.TemporalitySelector {
	if t != otlp.AggregationTemporalityDelta {
		return sdkmetric.DefaultTemporalitySelector
	}
	return func(kind sdkmetric.InstrumentKind) metricdata.Temporality {
		switch kind {
		case sdkmetric.InstrumentKindUpDownCounter, sdkmetric.InstrumentKindObservableUpDownCounter:
			return metricdata.CumulativeTemporality
		default:
			return metricdata.DeltaTemporality
		}
	}
}

func resourceAttributes(attrs map[string]string) []attribute.KeyValue {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kvs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		kvs = append(kvs, attribute.String(k, attrs[k]))
	}
	return kvs
}

func (r *Registry) Config() otlp.Config { return r.cfg }

func (r *Registry) MeterProvider() metric.MeterProvider { return r.provider }

func (r *Registry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return r.provider.Meter(name, opts...)
}

// ForceFlush exports everything recorded so far. It is a no-op when export
// is disabled.
func (r *Registry) ForceFlush(ctx context.Context) error {
	if r.sdk == nil {
		return nil
	}
	return r.sdk.ForceFlush(ctx)
}

// Shutdown flushes and stops the exporter. Later calls return the first
// call's result.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		if r.sdk == nil {
			return
		}
		r.shutdownErr = multierr.Combine(r.sdk.ForceFlush(ctx), r.sdk.Shutdown(ctx))
		if r.shutdownErr != nil {
			r.logger.Warn("otlp metrics shutdown", zap.Error(r.shutdownErr))
		}
	})
	return r.shutdownErr
}
