package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingService owns the tracer provider used for document decoding spans.
// A disabled service hands out no-op spans.
type TracingService struct {
	config   *Config
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// Config configures tracing.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	SampleRate     float64

	// ExportType is "otlp" or "console".
	ExportType     string
	ExportEndpoint string
	ExportTimeout  time.Duration
	OTLPInsecure   bool
	OTLPHeaders    map[string]string

	// ConsoleOutput receives console exporter output; stderr when nil.
	ConsoleOutput io.Writer
}

// DefaultConfig returns a disabled configuration.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "notionmodel",
		ServiceVersion: "dev",
		SampleRate:     1.0,
		ExportType:     "console",
		ExportEndpoint: "localhost:4318",
		ExportTimeout:  10 * time.Second,
	}
}

// NewTracingService creates the service and, when enabled, installs its
// provider as the global one.
func NewTracingService(config *Config) (*TracingService, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if !config.Enabled {
		return &TracingService{
			config: config,
			tracer: noop.NewTracerProvider().Tracer(config.ServiceName),
		}, nil
	}

	exporter, err := createExporter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	ts, err := newService(config, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(config.ExportTimeout)))
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(ts.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return ts, nil
}

// NewWithExporter creates an enabled service that exports synchronously to
// exporter. It does not touch the global provider.
func NewWithExporter(config *Config, exporter sdktrace.SpanExporter) (*TracingService, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.Enabled = true
	return newService(&cfg, sdktrace.WithSyncer(exporter))
}

func newService(config *Config, export sdktrace.TracerProviderOption) (*TracingService, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	)

	provider := sdktrace.NewTracerProvider(
		export,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))),
	)

	return &TracingService{
		config:   config,
		provider: provider,
		tracer:   provider.Tracer("github.com/devmaxde/notion-client"),
	}, nil
}

func createExporter(config *Config) (sdktrace.SpanExporter, error) {
	switch config.ExportType {
	case "otlp":
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(config.ExportEndpoint),
			otlptracehttp.WithTimeout(config.ExportTimeout),
		}
		if len(config.OTLPHeaders) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(config.OTLPHeaders))
		}
		if config.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	case "console", "":
		out := config.ConsoleOutput
		if out == nil {
			out = os.Stderr
		}
		return newConsoleExporter(out), nil
	default:
		return nil, fmt.Errorf("unsupported export type: %s", config.ExportType)
	}
}

// Enabled reports whether spans are recorded.
func (ts *TracingService) Enabled() bool { return ts.config.Enabled }

// Stop flushes remaining spans and shuts the provider down.
func (ts *TracingService) Stop(ctx context.Context) error {
	if ts.provider == nil {
		return nil
	}
	return ts.provider.Shutdown(ctx)
}

// StartSpan starts a new span with the given name and options
func (ts *TracingService) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return ts.tracer.Start(ctx, name, opts...)
}

// StartDocumentSpan starts a span for one document operation such as
// "decode" or "encode".
func (ts *TracingService) StartDocumentSpan(ctx context.Context, operation, source string) (context.Context, trace.Span) {
	return ts.tracer.Start(ctx, "document."+operation,
		trace.WithAttributes(
			attribute.String("document.source", source),
			attribute.String("operation.type", operation),
		),
	)
}

// StartBatchSpan starts the parent span of a batch of documents.
func (ts *TracingService) StartBatchSpan(ctx context.Context, size, workers int) (context.Context, trace.Span) {
	return ts.tracer.Start(ctx, "document.batch",
		trace.WithAttributes(
			attribute.Int("batch.size", size),
			attribute.Int("batch.workers", workers),
		),
	)
}

// AddSpanAttributes adds attributes to span
func (ts *TracingService) AddSpanAttributes(span trace.Span, attrs map[string]interface{}) {
	if span == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(convertAttributes(attrs)...)
}

// RecordError records err on span and marks it failed
func (ts *TracingService) RecordError(span trace.Span, err error, attrs map[string]interface{}) {
	if span == nil || !span.IsRecording() || err == nil {
		return
	}

	span.RecordError(err)
	if len(attrs) > 0 {
		span.SetAttributes(convertAttributes(attrs)...)
	}
	span.SetStatus(codes.Error, err.Error())
}

func convertAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, convertToOTELAttribute(k, v))
	}
	return out
}

func convertToOTELAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case []int:
		return attribute.IntSlice(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Nanoseconds())
	case time.Time:
		return attribute.String(key, v.Format(time.RFC3339))
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

// consoleExporter writes one line per finished span.
type consoleExporter struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleExporter(out io.Writer) *consoleExporter {
	return &consoleExporter{out: out}
}

func (e *consoleExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, span := range spans {
		_, err := fmt.Fprintf(e.out, "trace=%s span=%s name=%s status=%s duration=%s\n",
			span.SpanContext().TraceID(),
			span.SpanContext().SpanID(),
			span.Name(),
			span.Status().Code,
			span.EndTime().Sub(span.StartTime()),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *consoleExporter) Shutdown(ctx context.Context) error {
	return nil
}
