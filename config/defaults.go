package config

import (
	"github.com/google/uuid"

	"github.com/sigbus/sigbus/pkg/version"
)

// DefaultConfig returns a Config with sensible defaults. The instance id
// is freshly generated per call.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "sigbus",
			Version:     version.Version,
			Environment: "development",
			InstanceID:  uuid.NewString(),
			Debug:       false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9091,
			Path:    "/metrics",
		},
		Dispatch: DispatchConfig{
			DefaultWeak:  true,
			DebugLogging: false,
		},
	}
}
