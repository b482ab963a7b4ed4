package otlpmetricsexporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/component/componenttest"
	"go.opentelemetry.io/collector/config/configretry"
	"go.opentelemetry.io/collector/exporter/exportertest"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

func TestCreateDefaultConfig(t *testing.T) {
	factory := NewFactory()
	cfg := factory.CreateDefaultConfig()

	assert.Equal(t, &Config{
		Properties:    otlp.Properties{},
		BackOffConfig: configretry.NewDefaultBackOffConfig(),
	}, cfg)
	assert.NoError(t, componenttest.CheckConfigStruct(cfg))
	assert.Equal(t, component.MustNewType("otlpmetrics"), factory.Type())
	assert.Equal(t, component.StabilityLevelBeta, factory.MetricsStability())
}

func TestCreateMetricsExporter(t *testing.T) {
	factory := NewFactory()
	cfg := factory.CreateDefaultConfig()

	exp, err := factory.CreateMetrics(context.Background(), exportertest.NewNopSettings(componentType), cfg)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.True(t, exp.Capabilities().MutatesData)

	require.NoError(t, exp.Start(context.Background(), componenttest.NewNopHost()))
	require.NoError(t, exp.Shutdown(context.Background()))
}

func TestDefaultConfigAdaptsToDefaults(t *testing.T) {
	cfg := createDefaultConfig().(*Config)
	a := otlp.NewPropertiesConfigAdapter(&cfg.Properties)

	assert.Equal(t, otlp.DefaultURL, a.URL())
	assert.Equal(t, otlp.AggregationTemporalityCumulative, a.AggregationTemporality())
	assert.Empty(t, a.ResourceAttributes())
	assert.Empty(t, a.Headers())
	assert.Equal(t, otlp.Milliseconds, a.BaseTimeUnit())
}
