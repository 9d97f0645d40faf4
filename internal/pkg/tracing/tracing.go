package tracing

import (
	"context"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "scholar-match"

type Config struct {
	Enabled     bool
	ServiceName string
	Writer      io.Writer
}

// Init installs a global tracer provider. When disabled the global no-op
// provider is left in place. The returned func flushes and shuts down.
func Init(cfg Config, log *zap.Logger) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	if log != nil {
		name := strings.TrimSpace(cfg.ServiceName)
		log.Info("tracing initialized", zap.String("service", name), zap.String("exporter", "stdout"))
	}
	return tp.Shutdown, nil
}

func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
