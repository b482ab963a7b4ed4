package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

type effectiveConfig struct {
	URL                    string                      `yaml:"url"`
	AggregationTemporality otlp.AggregationTemporality `yaml:"aggregation_temporality"`
	ResourceAttributes     map[string]string           `yaml:"resource_attributes"`
	Headers                map[string]string           `yaml:"headers"`
	BaseTimeUnit           otlp.TimeUnit               `yaml:"base_time_unit"`
	Enabled                bool                        `yaml:"enabled"`
	Step                   time.Duration               `yaml:"step"`
	Timeout                time.Duration               `yaml:"timeout"`
	Protocol               otlp.Protocol               `yaml:"protocol"`
}

func newEffectiveConfig(a *otlp.PropertiesConfigAdapter) effectiveConfig {
	return effectiveConfig{
		URL:                    a.URL(),
		AggregationTemporality: a.AggregationTemporality(),
		ResourceAttributes:     a.ResourceAttributes(),
		Headers:                a.Headers(),
		BaseTimeUnit:           a.BaseTimeUnit(),
		Enabled:                a.Enabled(),
		Step:                   a.Step(),
		Timeout:                a.Timeout(),
		Protocol:               a.Protocol(),
	}
}

func newConfigCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective export configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newEffectiveConfig(otlp.NewPropertiesConfigAdapter(&opts.props))
			out, err := yaml.Marshal(view)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
