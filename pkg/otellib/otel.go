package otellib

import (
	"context"

	"github.com/incentivar/cartela-board/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// InitOtel builds the tracer provider exporting to Jaeger. The returned
// shutdown function flushes pending spans.
func InitOtel(serviceName string, environment string, conf config.JaegerConfig) (trace.TracerProvider, func()) {
	if !conf.Enabled {
		provider := tracesdk.NewTracerProvider(
			tracesdk.WithSampler(tracesdk.NeverSample()),
		)
		return provider, func() {}
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(conf.Endpoint),
	))
	if err != nil {
		panic(err)
	}

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithSampler(tracesdk.TraceIDRatioBased(conf.Ratio)),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("environment", environment),
		)),
	)

	shutdown := func() {
		_ = provider.Shutdown(context.Background())
	}
	return provider, shutdown
}
