// Package bind populates otlp.Properties from a YAML file and the environment.
package bind

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

// EnvPrefix is prepended to every Properties env tag, e.g.
// MANAGEMENT_OTLP_METRICS_EXPORT_URL.
const EnvPrefix = "MANAGEMENT_OTLP_METRICS_EXPORT_"

// FromFile decodes a YAML properties document. Unknown keys are an error.
func FromFile(path string) (otlp.Properties, error) {
	var props otlp.Properties
	data, err := os.ReadFile(path)
	if err != nil {
		return props, fmt.Errorf("read properties file: %w", err)
	}
	if err := decodeYAML(data, &props); err != nil {
		return props, fmt.Errorf("decode properties file %s: %w", path, err)
	}
	return props, nil
}

func decodeYAML(data []byte, props *otlp.Properties) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(props); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// FromEnv overrides fields of props whose variables are present in the
// environment.
func FromEnv(props *otlp.Properties) error {
	return FromEnvironment(props, nil)
}

// FromEnvironment is FromEnv with an explicit environment; a nil map reads
// the process environment.
func FromEnvironment(props *otlp.Properties, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(props, opts); err != nil {
		return fmt.Errorf("parse properties env: %w", err)
	}
	return nil
}

// Load reads path (when non-empty), applies env overrides and validates.
func Load(path string) (otlp.Properties, error) {
	var props otlp.Properties
	if path != "" {
		var err error
		if props, err = FromFile(path); err != nil {
			return props, err
		}
	}
	if err := FromEnv(&props); err != nil {
		return props, err
	}
	if err := props.Validate(); err != nil {
		return props, fmt.Errorf("invalid otlp properties: %w", err)
	}
	return props, nil
}
