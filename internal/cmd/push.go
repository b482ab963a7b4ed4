package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
	"github.com/wexmaster/otlpmetricsexporter/internal/registry"
)

func newPushCommand(opts *globalOptions) *cobra.Command {
	var shutdownTimeout time.Duration
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Record sample metrics and push them once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPush(cmd.Context(), opts, shutdownTimeout)
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for the final flush")
	return cmd
}

func runPush(ctx context.Context, opts *globalOptions, shutdownTimeout time.Duration) error {
	start := time.Now()
	cfg := otlp.NewPropertiesConfigAdapter(&opts.props)
	reg, err := registry.New(ctx, cfg, registry.WithLogger(opts.logger))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := reg.Shutdown(sctx); err != nil {
			opts.logger.Error("registry shutdown", zap.Error(err))
		}
	}()

	runs, err := reg.Meter("otlpmetrics").Int64Counter("otlpmetrics.push.runs",
		metric.WithDescription("Number of push command invocations"))
	if err != nil {
		return fmt.Errorf("create counter: %w", err)
	}
	startup, err := reg.Timer("otlpmetrics.push.startup", "Time from command start to first record")
	if err != nil {
		return err
	}

	attrs := attribute.String("protocol", cfg.Protocol().String())
	runs.Add(ctx, 1, metric.WithAttributes(attrs))
	startup.Since(ctx, start, attrs)

	if !cfg.Enabled() {
		opts.logger.Info("metrics export disabled, nothing pushed")
		return nil
	}
	if err := reg.ForceFlush(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", cfg.URL(), err)
	}
	opts.logger.Info("metrics pushed",
		zap.String("url", cfg.URL()),
		zap.Stringer("base_time_unit", startup.Unit()),
	)
	return nil
}
