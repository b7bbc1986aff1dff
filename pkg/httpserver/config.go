// pkg/httpserver/config.go

package httpserver

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config определяет настройки HTTP-сервера.
type Config struct {
	Name              string        `mapstructure:"name"`                // лейбл в метриках и логах
	Host              string        `mapstructure:"host"`                // пусто → все интерфейсы
	Port              int           `mapstructure:"port"`                // 0 → эфемерный порт от ОС
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`        // максимальное время чтения запроса
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"` // максимальное время чтения заголовков
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`       // максимальное время записи ответа
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`        // максимальное время простоя соединения
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`    // используется владельцем при Close; 0 → без ограничения
	MetricsPath       string        `mapstructure:"metrics_path"`        // путь для /metrics
	HealthzPath       string        `mapstructure:"healthz_path"`        // путь для /healthz
	ReadyzPath        string        `mapstructure:"readyz_path"`         // путь для /readyz
}

// ApplyDefaults заполняет пустые поля.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.HealthzPath == "" {
		c.HealthzPath = "/healthz"
	}
	if c.ReadyzPath == "" {
		c.ReadyzPath = "/readyz"
	}
}

// Validate проверяет порт и пути служебных эндпоинтов.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("httpserver: port must be between 0 and 65535, got %d", c.Port)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("httpserver: shutdown_timeout must not be negative")
	}
	paths := map[string]string{
		"metrics_path": c.MetricsPath,
		"healthz_path": c.HealthzPath,
		"readyz_path":  c.ReadyzPath,
	}
	for k, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("httpserver: %s must start with '/'", k)
		}
	}
	return nil
}

// Addr returns host:port as passed to net.Listen.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
