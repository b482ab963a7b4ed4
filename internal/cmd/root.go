package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wexmaster/otlpmetricsexporter/internal/bind"
	"github.com/wexmaster/otlpmetricsexporter/internal/logging"
	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	logger *zap.Logger
	props  otlp.Properties
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "otlpmetrics",
		Short: "Inspect and exercise OTLP metrics export configuration",
		Long: `otlpmetrics loads OTLP metrics export properties from an optional YAML file
and MANAGEMENT_OTLP_METRICS_EXPORT_* environment variables, applies the export
defaults and either prints the effective configuration or pushes sample metrics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lg, err := logging.New(logging.Config{Level: opts.logLevel, Format: opts.logFormat})
			if err != nil {
				return err
			}
			opts.logger = lg
			props, err := bind.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.props = props
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				logging.Sync(opts.logger)
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML properties file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(newConfigCommand(opts), newPushCommand(opts))
	return root
}

func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
