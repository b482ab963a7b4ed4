package otlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdapterURL(t *testing.T) {
	props := &Properties{}
	assert.Equal(t, DefaultURL, NewPropertiesConfigAdapter(props).URL())

	props.URL = "http://another-url:4318/v1/metrics"
	assert.Equal(t, "http://another-url:4318/v1/metrics", NewPropertiesConfigAdapter(props).URL())
}

func TestAdapterAggregationTemporality(t *testing.T) {
	props := &Properties{}
	assert.Equal(t, AggregationTemporalityCumulative, NewPropertiesConfigAdapter(props).AggregationTemporality())

	props.AggregationTemporality = AggregationTemporalityDelta
	assert.Equal(t, AggregationTemporalityDelta, NewPropertiesConfigAdapter(props).AggregationTemporality())
}

func TestAdapterResourceAttributes(t *testing.T) {
	props := &Properties{}
	attrs := NewPropertiesConfigAdapter(props).ResourceAttributes()
	assert.NotNil(t, attrs)
	assert.Empty(t, attrs)

	props.ResourceAttributes = map[string]string{"service.name": "boot-service"}
	assert.Equal(t, map[string]string{"service.name": "boot-service"}, NewPropertiesConfigAdapter(props).ResourceAttributes())
}

func TestAdapterHeaders(t *testing.T) {
	props := &Properties{}
	headers := NewPropertiesConfigAdapter(props).Headers()
	assert.NotNil(t, headers)
	assert.Empty(t, headers)

	props.Headers = map[string]string{"header": "value"}
	assert.Equal(t, map[string]string{"header": "value"}, NewPropertiesConfigAdapter(props).Headers())
}

func TestAdapterBaseTimeUnit(t *testing.T) {
	props := &Properties{}
	assert.Equal(t, Milliseconds, NewPropertiesConfigAdapter(props).BaseTimeUnit())

	props.BaseTimeUnit = Seconds
	assert.Equal(t, Seconds, NewPropertiesConfigAdapter(props).BaseTimeUnit())
}

func TestAdapterPushSettings(t *testing.T) {
	props := &Properties{}
	a := NewPropertiesConfigAdapter(props)
	assert.True(t, a.Enabled())
	assert.Equal(t, time.Minute, a.Step())
	assert.Equal(t, 10*time.Second, a.Timeout())
	assert.Equal(t, ProtocolHTTPProtobuf, a.Protocol())

	disabled := false
	props.Enabled = &disabled
	props.Step = 30 * time.Second
	props.Timeout = time.Second
	props.Protocol = ProtocolGRPC
	assert.False(t, a.Enabled())
	assert.Equal(t, 30*time.Second, a.Step())
	assert.Equal(t, time.Second, a.Timeout())
	assert.Equal(t, ProtocolGRPC, a.Protocol())
}

func TestAdapterReadsLiveProperties(t *testing.T) {
	props := &Properties{}
	a := NewPropertiesConfigAdapter(props)
	assert.Equal(t, DefaultURL, a.URL())

	props.URL = "https://collector:4318/v1/metrics"
	assert.Equal(t, "https://collector:4318/v1/metrics", a.URL())
	assert.Equal(t, a.URL(), a.URL())
}

func TestAdapterDoesNotMutateProperties(t *testing.T) {
	props := &Properties{}
	a := NewPropertiesConfigAdapter(props)
	_ = a.URL()
	_ = a.AggregationTemporality()
	_ = a.ResourceAttributes()
	_ = a.Headers()
	_ = a.BaseTimeUnit()
	_ = a.Enabled()
	_ = a.Step()
	assert.Equal(t, Properties{}, *props)
}

func TestAdapterNilProperties(t *testing.T) {
	a := NewPropertiesConfigAdapter(nil)
	assert.Equal(t, DefaultURL, a.URL())
	assert.Equal(t, AggregationTemporalityCumulative, a.AggregationTemporality())
	assert.Empty(t, a.ResourceAttributes())
	assert.Empty(t, a.Headers())
	assert.Equal(t, Milliseconds, a.BaseTimeUnit())
	assert.True(t, a.Enabled())
}

type bareConfig struct{ Config }

func TestPushSettingsFallsBackToDefaults(t *testing.T) {
	pc := PushSettings(bareConfig{})
	assert.True(t, pc.Enabled())
	assert.Equal(t, DefaultStep, pc.Step())
	assert.Equal(t, DefaultProtocol, pc.Protocol())

	props := &Properties{Step: 5 * time.Second}
	assert.Equal(t, 5*time.Second, PushSettings(NewPropertiesConfigAdapter(props)).Step())
}
