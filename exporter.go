package otlpmetricsexporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/consumer/consumererror"
	"go.opentelemetry.io/collector/exporter/exporterhelper"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/pmetric/pmetricotlp"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

const maxResponseBody = 64 << 10

type otlpMetricsExporter struct {
	cfg    otlp.Config
	push   otlp.PushConfig
	logger *zap.Logger
	client *http.Client
}

func newOTLPMetricsExporter(cfg *Config, lg *zap.Logger) *otlpMetricsExporter {
	adapter := otlp.NewPropertiesConfigAdapter(&cfg.Properties)
	return &otlpMetricsExporter{
		cfg:    adapter,
		push:   adapter,
		logger: lg,
		client: &http.Client{Timeout: adapter.Timeout()},
	}
}

func (e *otlpMetricsExporter) start(_ context.Context, _ component.Host) error {
	e.logger.Info("otlpmetrics/exporter: started",
		zap.String("url", e.cfg.URL()),
		zap.Bool("enabled", e.push.Enabled()),
		zap.Stringer("temporality", e.cfg.AggregationTemporality()),
		zap.Stringer("base_time_unit", e.cfg.BaseTimeUnit()),
	)
	return nil
}

func (e *otlpMetricsExporter) shutdown(context.Context) error {
	e.client.CloseIdleConnections()
	return nil
}

func (e *otlpMetricsExporter) pushMetrics(ctx context.Context, md pmetric.Metrics) error {
	if !e.push.Enabled() {
		e.logger.Debug("otlpmetrics/exporter: disabled, dropping metrics", zap.Int("metrics", md.MetricCount()))
		return nil
	}

	addResourceAttributes(md, e.cfg.ResourceAttributes())
	rescaleTimeUnits(md, e.cfg.BaseTimeUnit())
	if n := countTemporalityMismatches(md, e.cfg.AggregationTemporality()); n > 0 {
		e.logger.Warn("otlpmetrics/exporter: metrics do not match configured temporality",
			zap.Int("metrics", n),
			zap.Stringer("temporality", e.cfg.AggregationTemporality()),
		)
	}

	body, err := pmetricotlp.NewExportRequestFromMetrics(md).MarshalProto()
	if err != nil {
		return consumererror.NewPermanent(fmt.Errorf("otlpmetrics/exporter: marshal: %w", err))
	}
	return e.send(ctx, body, md.MetricCount())
}

func (e *otlpMetricsExporter) send(ctx context.Context, body []byte, metrics int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL(), bytes.NewReader(body))
	if err != nil {
		return consumererror.NewPermanent(fmt.Errorf("otlpmetrics/exporter: build request: %w", err))
	}
	for k, v := range e.cfg.Headers() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/x-protobuf")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("otlpmetrics/exporter: send: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		e.logger.Debug("otlpmetrics/exporter: metrics", zap.Int("metrics", metrics))
		return nil
	}

	err = fmt.Errorf("otlpmetrics/exporter: %s responded %s", e.cfg.URL(), resp.Status)
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		if delay, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			return exporterhelper.NewThrottleRetry(err, delay)
		}
		return err
	default:
		return consumererror.NewPermanent(err)
	}
}

func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// Attributes already present on a resource win over configured ones.
func addResourceAttributes(md pmetric.Metrics, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	rms := md.ResourceMetrics()
	for i := 0; i < rms.Len(); i++ {
		res := rms.At(i).Resource().Attributes()
		for k, v := range attrs {
			if _, ok := res.Get(k); !ok {
				res.PutStr(k, v)
			}
		}
	}
}

func forEachMetric(md pmetric.Metrics, fn func(pmetric.Metric)) {
	rms := md.ResourceMetrics()
	for i := 0; i < rms.Len(); i++ {
		sms := rms.At(i).ScopeMetrics()
		for j := 0; j < sms.Len(); j++ {
			ms := sms.At(j).Metrics()
			for k := 0; k < ms.Len(); k++ {
				fn(ms.At(k))
			}
		}
	}
}

// rescaleTimeUnits converts gauges, sums and explicit histograms whose unit
// is a time symbol into base. Other metric types keep their unit.
func rescaleTimeUnits(md pmetric.Metrics, base otlp.TimeUnit) {
	forEachMetric(md, func(m pmetric.Metric) {
		from, ok := otlp.ParseTimeUnitSymbol(m.Unit())
		if !ok || from == base || base.Duration() == 0 {
			return
		}
		factor := float64(from.Duration()) / float64(base.Duration())
		switch m.Type() {
		case pmetric.MetricTypeGauge:
			scaleNumberPoints(m.Gauge().DataPoints(), factor)
		case pmetric.MetricTypeSum:
			scaleNumberPoints(m.Sum().DataPoints(), factor)
		case pmetric.MetricTypeHistogram:
			scaleHistogramPoints(m.Histogram().DataPoints(), factor)
		default:
			return
		}
		m.SetUnit(base.Symbol())
	})
}

func scaleNumberPoints(dps pmetric.NumberDataPointSlice, factor float64) {
	integral := factor >= 1 && factor == math.Trunc(factor)
	for i := 0; i < dps.Len(); i++ {
		dp := dps.At(i)
		switch dp.ValueType() {
		case pmetric.NumberDataPointValueTypeInt:
			if integral && !overflowsInt(dp.IntValue(), int64(factor)) {
				dp.SetIntValue(dp.IntValue() * int64(factor))
			} else {
				dp.SetDoubleValue(float64(dp.IntValue()) * factor)
			}
		case pmetric.NumberDataPointValueTypeDouble:
			dp.SetDoubleValue(dp.DoubleValue() * factor)
		}
	}
}

func overflowsInt(v, factor int64) bool {
	if v < 0 {
		return v < math.MinInt64/factor
	}
	return v > math.MaxInt64/factor
}

func scaleHistogramPoints(dps pmetric.HistogramDataPointSlice, factor float64) {
	for i := 0; i < dps.Len(); i++ {
		dp := dps.At(i)
		bounds := dp.ExplicitBounds()
		for j := 0; j < bounds.Len(); j++ {
			bounds.SetAt(j, bounds.At(j)*factor)
		}
		if dp.HasSum() {
			dp.SetSum(dp.Sum() * factor)
		}
		if dp.HasMin() {
			dp.SetMin(dp.Min() * factor)
		}
		if dp.HasMax() {
			dp.SetMax(dp.Max() * factor)
		}
	}
}

func countTemporalityMismatches(md pmetric.Metrics, want otlp.AggregationTemporality) int {
	target := pmetric.AggregationTemporalityCumulative
	if want == otlp.AggregationTemporalityDelta {
		target = pmetric.AggregationTemporalityDelta
	}
	n := 0
	forEachMetric(md, func(m pmetric.Metric) {
		var got pmetric.AggregationTemporality
		switch m.Type() {
		case pmetric.MetricTypeSum:
			// Up-down counters stay cumulative under delta.
			if target == pmetric.AggregationTemporalityDelta && !m.Sum().IsMonotonic() {
				return
			}
			got = m.Sum().AggregationTemporality()
		case pmetric.MetricTypeHistogram:
			got = m.Histogram().AggregationTemporality()
		case pmetric.MetricTypeExponentialHistogram:
			got = m.ExponentialHistogram().AggregationTemporality()
		default:
			return
		}
		if got != target {
			n++
		}
	})
	return n
}
