// Package tracing sets up OpenTelemetry tracing for edit sessions. Spans
// are written as JSON to a file or sent to an OTLP collector over gRPC;
// with neither configured tracing stays a no-op.
package tracing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName is the service.name resource attribute.
const ServiceName = "inlineedit"

// Config selects where spans go. Endpoint wins when both are set.
type Config struct {
	File     string // JSON lines written by the stdout exporter
	Endpoint string // OTLP gRPC collector, host:port
	Insecure bool   // plaintext gRPC to Endpoint
}

// Provider owns the tracer provider and its output file.
type Provider struct {
	tp   *sdktrace.TracerProvider
	file *os.File
}

// Setup installs a global tracer provider for cfg. An empty Config returns
// a Provider whose Tracer is a no-op.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	var (
		exp  sdktrace.SpanExporter
		file *os.File
		err  error
	)
	switch {
	case cfg.Endpoint != "":
		exp, err = otlpExporter(ctx, cfg)
	case cfg.File != "":
		exp, file, err = fileExporter(cfg.File)
	default:
		return &Provider{}, nil
	}
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp, file: file}, nil
}

func otlpExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	return exp, nil
}

func fileExporter(path string) (sdktrace.SpanExporter, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create trace dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-chosen trace file
	if err != nil {
		return nil, nil, fmt.Errorf("open trace file: %w", err)
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}
	return exp, f, nil
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p.tp == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tp.Tracer(name)
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.tp != nil
}

// Shutdown flushes pending spans and closes the trace file, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	err := p.tp.Shutdown(ctx)
	if p.file == nil {
		return err
	}
	if cerr := p.file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close trace file: %w", cerr)
	}
	return err
}
