package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/wexmaster/otlpmetricsexporter/internal/bind"
	"github.com/wexmaster/otlpmetricsexporter/internal/otlp"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	out, err := run(t, "config", "--log-level", "error")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, otlp.DefaultURL, got["url"])
	assert.Equal(t, "cumulative", got["aggregation_temporality"])
	assert.Equal(t, "milliseconds", got["base_time_unit"])
	assert.Equal(t, "1m0s", got["step"])
	assert.Equal(t, true, got["enabled"])
}

func TestConfigCommandReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otlp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_time_unit: seconds\nheaders:\n  header: value\n"), 0o600))
	t.Setenv(bind.EnvPrefix+"AGGREGATION_TEMPORALITY", "DELTA")

	out, err := run(t, "config", "--config", path, "--log-level", "error")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "seconds", got["base_time_unit"])
	assert.Equal(t, "delta", got["aggregation_temporality"])
	assert.Equal(t, map[string]any{"header": "value"}, got["headers"])
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "config", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestPushCommand(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		if r.Header.Get("header") == "value" {
			hits.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv(bind.EnvPrefix+"URL", srv.URL+"/v1/metrics")
	t.Setenv(bind.EnvPrefix+"HEADERS", "header=value")

	_, err := run(t, "push", "--log-level", "error")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, hits.Load(), int32(1))
}

func TestRunPushDisabled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	disabled := false
	opts := &globalOptions{
		logger: zap.New(core),
		props:  otlp.Properties{Enabled: &disabled},
	}

	require.NoError(t, runPush(context.Background(), opts, time.Second))
	assert.Equal(t, 1, logs.FilterMessage("metrics export disabled, nothing pushed").Len())
	assert.Zero(t, logs.FilterMessage("metrics pushed").Len())
}
