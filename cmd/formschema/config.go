package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

const envPrefix = "formschema"

// Config is read from FORMSCHEMA_* environment variables; flags override it.
type Config struct {
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string        `envconfig:"LOG_FORMAT" default:"text"`
	AllowHTTP         bool          `envconfig:"ALLOW_HTTP" default:"false"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	OmitEmptyOptional bool          `envconfig:"OMIT_EMPTY_OPTIONAL" default:"false"`
}

// LoadConfig processes the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) loaderOptions() []schema.LoaderOption {
	if !c.AllowHTTP {
		return nil
	}
	return []schema.LoaderOption{schema.WithHTTPFallback(c.RequestTimeout)}
}

func (c Config) coerceOptions() []schemamodel.CoerceOption {
	if !c.OmitEmptyOptional {
		return nil
	}
	return []schemamodel.CoerceOption{schemamodel.OmitEmptyOptional()}
}

func newLogger(cfg Config, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("config: unknown log format %q", cfg.LogFormat)
	}
	return logger, nil
}
