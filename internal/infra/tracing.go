package infra

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/pkg/bininfo"
)

// Tracing installs the global tracer provider. With tracing disabled the
// otel no-op provider is returned.
func Tracing(conf *appconfig.Config, lc fx.Lifecycle) (trace.TracerProvider, error) {
	if !conf.TracingEnabled {
		return trace.NewNoopTracerProvider(), nil
	}

	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(conf.TracingSampleRate))),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(constant.ServiceName),
			semconv.ServiceVersionKey.String(bininfo.Version),
			attribute.String("environment", conf.AppContext.Env.String()),
		)),
	}

	if conf.TracingExporters.Has(appconfig.TracingExporterOTLPGRPC) {
		// endpoint and headers come from the OTEL_EXPORTER_OTLP_* variables
		exporter, err := otlptracegrpc.New(context.Background(), otlptracegrpc.WithInsecure())
		if err != nil {
			return nil, errors.Wrap(err, "infra: tracing: otlpgrpc exporter")
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
	}

	if conf.TracingExporters.Has(appconfig.TracingExporterStdout) {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.Wrap(err, "infra: tracing: stdout exporter")
		}
		opts = append(opts, tracesdk.WithSyncer(exporter))
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	lc.Append(fx.StopHook(tp.Shutdown))

	log.Info().
		Str("evt.name", "infra.tracing.init").
		Strs("exporters", conf.TracingExporters).
		Float64("sampleRate", conf.TracingSampleRate).
		Msg("tracing enabled")

	return tp, nil
}
