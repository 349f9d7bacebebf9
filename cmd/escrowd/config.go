package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config holds the process settings read from the environment. Command line
// flags take precedence.
type Config struct {
	Home     string `env:"ESCROWD_HOME"`
	Bind     string `env:"ESCROWD_BIND" envDefault:"tcp://localhost:26658"`
	Debug    bool   `env:"ESCROWD_DEBUG"`
	LogLevel string `env:"ESCROWD_LOG_LEVEL" envDefault:"info"`
	// TraceFile enables transaction tracing. Use "-" for stdout.
	TraceFile string `env:"ESCROWD_TRACE_FILE"`
}

func loadConfig() (Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	if conf.Home == "" {
		conf.Home = filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	}
	return conf, nil
}

// StartOptions returns the start command defaults.
func (c Config) StartOptions() server.StartOptions {
	return server.StartOptions{Bind: c.Bind, Debug: c.Debug}
}

// Logger returns a tendermint logger filtered to the configured level.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "escrowd")
	level, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, level), nil
}

// InstallTracing registers the global tracer provider used by the tracing
// decorator. Nothing is installed when no trace file is configured. Spans are
// written synchronously, as the server exits without a shutdown hook.
func (c Config) InstallTracing() error {
	if c.TraceFile == "" {
		return nil
	}

	var w io.Writer = os.Stdout
	if c.TraceFile != "-" {
		f, err := os.OpenFile(c.TraceFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		w = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	otel.SetTracerProvider(sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "escrowd"),
			attribute.String("service.version", custody.Version()),
		)),
	))
	return nil
}
