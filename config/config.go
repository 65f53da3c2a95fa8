// Package config provides configuration management for sigbus.
package config

// Config is the global configuration for a process embedding sigbus.
type Config struct {
	// App is the application configuration.
	App AppConfig `mapstructure:"app" validate:"required"`

	// Log is the logging configuration.
	Log LogConfig `mapstructure:"log" validate:"required"`

	// Metrics is the observability configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Dispatch is the signal dispatcher configuration.
	Dispatch DispatchConfig `mapstructure:"dispatch"`
}

// AppConfig holds application metadata and settings.
type AppConfig struct {
	// Name is the application name.
	Name string `mapstructure:"name" validate:"required"`

	// Version is the application version.
	Version string `mapstructure:"version"`

	// Environment is the runtime environment (development, staging, production).
	Environment string `mapstructure:"environment" validate:"env"`

	// InstanceID identifies this process instance in logs and metrics.
	InstanceID string `mapstructure:"instance_id"`

	// Debug enables debug mode with verbose logging.
	Debug bool `mapstructure:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is the log output format (text or json).
	Format string `mapstructure:"format" validate:"oneof=text json"`

	// Output is the log destination: stdout, stderr, or a file path.
	Output string `mapstructure:"output"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled enables metrics collection and the metrics endpoint.
	Enabled bool `mapstructure:"enabled"`

	// Port is the metrics HTTP server port.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// Path is the metrics endpoint path.
	Path string `mapstructure:"path"`
}

// DispatchConfig holds signal dispatcher settings.
type DispatchConfig struct {
	// DefaultWeak controls whether applications register receivers
	// weakly by default.
	DefaultWeak bool `mapstructure:"default_weak"`

	// DebugLogging enables per-dispatch debug log lines.
	DebugLogging bool `mapstructure:"debug_logging"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return ValidateWithDetails(c)
}
