package registry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

const instrumentationName = "github.com/wexmaster/otlpmetricsexporter/internal/registry"

// Timer records durations as a histogram expressed in the registry's base
// time unit.
type Timer struct {
	hist metric.Float64Histogram
	unit otlp.TimeUnit
}

func (r *Registry) Timer(name, description string) (*Timer, error) {
	unit := r.cfg.BaseTimeUnit()
	hist, err := r.Meter(instrumentationName).Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit.Symbol()),
	)
	if err != nil {
		return nil, fmt.Errorf("timer %s: %w", name, err)
	}
	return &Timer{hist: hist, unit: unit}, nil
}

func (t *Timer) Unit() otlp.TimeUnit { return t.unit }

func (t *Timer) Record(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	t.hist.Record(ctx, Convert(d, t.unit), metric.WithAttributes(attrs...))
}

func (t *Timer) Since(ctx context.Context, start time.Time, attrs ...attribute.KeyValue) {
	t.Record(ctx, time.Since(start), attrs...)
}

// Convert expresses d as a (possibly fractional) count of unit.
func Convert(d time.Duration, unit otlp.TimeUnit) float64 {
	base := unit.Duration()
	if base == 0 {
		base = otlp.DefaultBaseTimeUnit.Duration()
	}
	return float64(d) / float64(base)
}
