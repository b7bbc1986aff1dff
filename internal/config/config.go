// internal/config/config.go
package config

import (
	"fmt"

	"github.com/YaganovValera/httplifecycle/pkg/backoff"
	"github.com/YaganovValera/httplifecycle/pkg/configloader"
	"github.com/YaganovValera/httplifecycle/pkg/httpserver"
	"github.com/YaganovValera/httplifecycle/pkg/logger"
	"github.com/YaganovValera/httplifecycle/pkg/telemetry"
)

// EnvPrefix: префикс ENV переменных: HTTPLC_HTTP_PORT=9090.
const EnvPrefix = "HTTPLC"

// Config описывает параметры запуска httplifecycle.
type Config struct {
	ServiceName    string            `mapstructure:"service_name"`
	ServiceVersion string            `mapstructure:"service_version"`
	Logging        logger.Config     `mapstructure:"logging"`
	HTTP           httpserver.Config `mapstructure:"http"`
	Telemetry      telemetry.Config  `mapstructure:"telemetry"`
	Probe          backoff.Config    `mapstructure:"probe"` // self-probe healthz после Start
}

// Load загружает конфиг: defaults → YAML (если path не пуст) → ENV.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := configloader.Load(configloader.Options{
		Path:      path,
		EnvPrefix: EnvPrefix,
		Out:       &cfg,
		Defaults:  defaults(),
	}); err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return &cfg, nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service_name":    "httplifecycle",
		"service_version": "v1.0.0",

		"logging.level":    "info",
		"logging.dev_mode": false,

		"http.name":                "http",
		"http.host":                "",
		"http.port":                8080,
		"http.read_timeout":        "10s",
		"http.read_header_timeout": "5s",
		"http.write_timeout":       "15s",
		"http.idle_timeout":        "60s",
		"http.shutdown_timeout":    "10s",
		"http.metrics_path":        "/metrics",
		"http.healthz_path":        "/healthz",
		"http.readyz_path":         "/readyz",

		"telemetry.enabled":          false,
		"telemetry.endpoint":         "otel-collector:4317",
		"telemetry.insecure":         true,
		"telemetry.reconnect_period": "5s",
		"telemetry.timeout":          "5s",
		"telemetry.sampler_ratio":    1.0,

		"probe.initial_interval":    "50ms",
		"probe.max_interval":        "1s",
		"probe.max_elapsed_time":    "10s",
		"probe.per_attempt_timeout": "2s",
	}
}

// Validate применяет defaults вложенных секций и проверяет их.
// Вызывается configloader'ом после декодирования.
func (c *Config) Validate() error {
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	c.Probe.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.ServiceName
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.ServiceVersion
	}

	if c.ServiceName == "" || c.ServiceVersion == "" {
		return fmt.Errorf("service name/version is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config invalid: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config invalid: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry config invalid: %w", err)
	}
	if err := c.Probe.Validate(); err != nil {
		return fmt.Errorf("probe config invalid: %w", err)
	}
	return nil
}
