package otlpmetricsexporter

import (
	"context"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/config/configretry"
	"go.opentelemetry.io/collector/consumer"
	"go.opentelemetry.io/collector/exporter"
	"go.opentelemetry.io/collector/exporter/exporterhelper"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

const (
	typeStr   = "otlpmetrics"
	stability = component.StabilityLevelBeta
)

var componentType = component.MustNewType(typeStr)

func NewFactory() exporter.Factory {
	return exporter.NewFactory(
		componentType,
		createDefaultConfig,
		exporter.WithMetrics(createMetricsExporter, stability),
	)
}

// Properties stay unset so the adapter defaults apply.
func createDefaultConfig() component.Config {
	return &Config{
		Properties:    otlp.Properties{},
		BackOffConfig: configretry.NewDefaultBackOffConfig(),
	}
}

func createMetricsExporter(
	ctx context.Context,
	set exporter.Settings,
	cfg component.Config,
) (exporter.Metrics, error) {
	c := cfg.(*Config)
	exp := newOTLPMetricsExporter(c, set.Logger)
	return exporterhelper.NewMetrics(
		ctx, set, cfg, exp.pushMetrics,
		exporterhelper.WithStart(exp.start),
		exporterhelper.WithShutdown(exp.shutdown),
		exporterhelper.WithTimeout(exporterhelper.TimeoutConfig{Timeout: exp.push.Timeout()}),
		exporterhelper.WithRetry(c.BackOffConfig),
		exporterhelper.WithCapabilities(consumer.Capabilities{MutatesData: true}),
	)
}
