package otlp

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/multierr"
)

// Properties is the user-facing OTLP metrics export configuration. Every
// field is optional; the zero value means unset.
type Properties struct {
	URL                    string                 `mapstructure:"url" yaml:"url" env:"URL"`
	AggregationTemporality AggregationTemporality `mapstructure:"aggregation_temporality" yaml:"aggregation_temporality" env:"AGGREGATION_TEMPORALITY"`
	ResourceAttributes     map[string]string      `mapstructure:"resource_attributes" yaml:"resource_attributes" env:"RESOURCE_ATTRIBUTES" envKeyValSeparator:"="`
	Headers                map[string]string      `mapstructure:"headers" yaml:"headers" env:"HEADERS" envKeyValSeparator:"="`
	BaseTimeUnit           TimeUnit               `mapstructure:"base_time_unit" yaml:"base_time_unit" env:"BASE_TIME_UNIT"`

	Enabled  *bool         `mapstructure:"enabled" yaml:"enabled" env:"ENABLED"`
	Step     time.Duration `mapstructure:"step" yaml:"step" env:"STEP"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" env:"TIMEOUT"`
	Protocol Protocol      `mapstructure:"protocol" yaml:"protocol" env:"PROTOCOL"`
}

// Validate reports every malformed field. The adapter never calls it; binders do.
func (p *Properties) Validate() error {
	var errs error
	if p.URL != "" {
		if err := validateURL(p.URL); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if p.AggregationTemporality != "" && !p.AggregationTemporality.valid() {
		errs = multierr.Append(errs, fmt.Errorf("unknown aggregation temporality %q", string(p.AggregationTemporality)))
	}
	if p.BaseTimeUnit != "" && !p.BaseTimeUnit.valid() {
		errs = multierr.Append(errs, fmt.Errorf("unknown base time unit %q", string(p.BaseTimeUnit)))
	}
	if p.Protocol != "" && !p.Protocol.valid() {
		errs = multierr.Append(errs, fmt.Errorf("unknown protocol %q", string(p.Protocol)))
	}
	if p.Step < 0 {
		errs = multierr.Append(errs, fmt.Errorf("step must not be negative, got %s", p.Step))
	}
	if p.Timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("timeout must not be negative, got %s", p.Timeout))
	}
	return errs
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", raw)
	}
	return nil
}
