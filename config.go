package otlpmetricsexporter

import (
	"errors"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/config/configretry"
	"go.uber.org/multierr"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

type Config struct {
	otlp.Properties `mapstructure:",squash"`

	BackOffConfig configretry.BackOffConfig `mapstructure:"retry_on_failure"`
}

var _ component.Config = (*Config)(nil)

func (cfg *Config) Validate() error {
	errs := multierr.Combine(cfg.Properties.Validate(), cfg.BackOffConfig.Validate())
	if cfg.Protocol == otlp.ProtocolGRPC {
		errs = multierr.Append(errs, errors.New("protocol grpc is not supported by the collector exporter, use http/protobuf"))
	}
	return errs
}
