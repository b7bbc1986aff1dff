// pkg/telemetry/otel_test.go
package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaganovValera/httplifecycle/pkg/logger"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		expectsErr bool
	}{
		{"disabled", Config{}, false},
		{"missing endpoint", Config{Enabled: true, ServiceName: "svc", ServiceVersion: "v1"}, true},
		{"missing serviceName", Config{Enabled: true, Endpoint: "host:1234", ServiceVersion: "v1"}, true},
		{"missing version", Config{Enabled: true, Endpoint: "host:1234", ServiceName: "svc"}, true},
		{"bad ratio", Config{Enabled: true, Endpoint: "host:1234", ServiceName: "svc", ServiceVersion: "v1", SamplerRatio: 2}, true},
		{"all set", Config{Enabled: true, Endpoint: "host:1234", ServiceName: "svc", ServiceVersion: "v1"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectsErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Endpoint: "e", ServiceName: "s", ServiceVersion: "v"}
	cfg.ApplyDefaults()
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.ReconnectPeriod)
	assert.Equal(t, 1.0, cfg.SamplerRatio)
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{}, logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Success(t *testing.T) {
	cfg := Config{
		Enabled:        true,
		Endpoint:       "localhost:4317",
		ServiceName:    "testsvc",
		ServiceVersion: "v0.1",
		Insecure:       true,
		Timeout:        time.Second,
	}
	shutdown, err := InitTracer(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "unit")
	span.End()

	// No collector is listening, so only the call itself is checked.
	_ = shutdown(context.Background())
}
