package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override, e.g. NOTIONMODEL_PROCESSING_WORKERS.
const EnvPrefix = "NOTIONMODEL"

// Config is the notionmodel command configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Processing ProcessingConfig `yaml:"processing" json:"processing"`
	Tracing    TracingConfig    `yaml:"tracing" json:"tracing"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Caller bool   `yaml:"caller" json:"caller"`
}

type OutputConfig struct {
	// Indent is used by fmt; empty renders compact JSON.
	Indent string `yaml:"indent" json:"indent"`
}

type ProcessingConfig struct {
	Workers int           `yaml:"workers" json:"workers"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Exporter    string  `yaml:"exporter" json:"exporter"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"`
	Insecure    bool    `yaml:"insecure" json:"insecure"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Indent: "  ",
		},
		Processing: ProcessingConfig{
			Workers: 4,
		},
		Tracing: TracingConfig{
			Exporter:    "console",
			Endpoint:    "localhost:4318",
			ServiceName: "notionmodel",
			SampleRate:  1.0,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional file and
// the environment, then validates it.
func LoadConfig(path string) (*Config, error) {
	if err := ValidateConfigPath(path); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := NewLoader(EnvPrefix).Load(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: must be text or json, got %q", c.Logging.Format))
	}
	if strings.Trim(c.Output.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("output.indent: only spaces and tabs are allowed"))
	}
	if c.Processing.Workers < 1 {
		errs = append(errs, fmt.Errorf("processing.workers: must be at least 1, got %d", c.Processing.Workers))
	}
	if c.Processing.Timeout < 0 {
		errs = append(errs, fmt.Errorf("processing.timeout: must not be negative"))
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "console", "otlp":
		default:
			errs = append(errs, fmt.Errorf("tracing.exporter: must be console or otlp, got %q", c.Tracing.Exporter))
		}
		if c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
			errs = append(errs, fmt.Errorf("tracing.endpoint: required for the otlp exporter"))
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
			errs = append(errs, fmt.Errorf("tracing.sample_rate: must be within [0, 1], got %g", c.Tracing.SampleRate))
		}
	}

	return errors.Join(errs...)
}
