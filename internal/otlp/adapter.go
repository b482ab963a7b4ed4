package otlp

import "time"

var (
	_ Config     = (*PropertiesConfigAdapter)(nil)
	_ PushConfig = (*PropertiesConfigAdapter)(nil)
)

// PropertiesConfigAdapter exposes Properties as a Config. It holds the
// properties by reference and never modifies them.
type PropertiesConfigAdapter struct {
	props *Properties
}

func NewPropertiesConfigAdapter(props *Properties) *PropertiesConfigAdapter {
	return &PropertiesConfigAdapter{props: props}
}

func (a *PropertiesConfigAdapter) URL() string {
	if a.props == nil || a.props.URL == "" {
		return DefaultURL
	}
	return a.props.URL
}

func (a *PropertiesConfigAdapter) AggregationTemporality() AggregationTemporality {
	if a.props == nil || a.props.AggregationTemporality == "" {
		return DefaultAggregationTemporality
	}
	return a.props.AggregationTemporality
}

func (a *PropertiesConfigAdapter) ResourceAttributes() map[string]string {
	if a.props == nil || a.props.ResourceAttributes == nil {
		return map[string]string{}
	}
	return a.props.ResourceAttributes
}

func (a *PropertiesConfigAdapter) Headers() map[string]string {
	if a.props == nil || a.props.Headers == nil {
		return map[string]string{}
	}
	return a.props.Headers
}

func (a *PropertiesConfigAdapter) BaseTimeUnit() TimeUnit {
	if a.props == nil || a.props.BaseTimeUnit == "" {
		return DefaultBaseTimeUnit
	}
	return a.props.BaseTimeUnit
}

func (a *PropertiesConfigAdapter) Enabled() bool {
	if a.props == nil || a.props.Enabled == nil {
		return true
	}
	return *a.props.Enabled
}

func (a *PropertiesConfigAdapter) Step() time.Duration {
	if a.props == nil || a.props.Step == 0 {
		return DefaultStep
	}
	return a.props.Step
}

func (a *PropertiesConfigAdapter) Timeout() time.Duration {
	if a.props == nil || a.props.Timeout == 0 {
		return DefaultTimeout
	}
	return a.props.Timeout
}

func (a *PropertiesConfigAdapter) Protocol() Protocol {
	if a.props == nil || a.props.Protocol == "" {
		return DefaultProtocol
	}
	return a.props.Protocol
}

// PushSettings returns cfg's push settings, or the defaults when cfg does not
// implement PushConfig.
func PushSettings(cfg Config) PushConfig {
	if pc, ok := cfg.(PushConfig); ok {
		return pc
	}
	return NewPropertiesConfigAdapter(nil)
}
