package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	promclient "github.com/prometheus/client_golang/prometheus"
	sloglogrus "github.com/samber/slog-logrus/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	logglobal "go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"golang.org/x/sync/errgroup"
)

type Client struct {
	log *slog.Logger

	registry       *promclient.Registry
	tracerProvider *trace.TracerProvider
	metricProvider *metric.MeterProvider
	loggerProvider *log.LoggerProvider
}

// Registry holds the otel instruments of the run in prometheus form.
func (client *Client) Registry() *promclient.Registry {
	return client.registry
}

func (client *Client) Flush(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if client.metricProvider != nil {
		g.Go(func() error {
			return client.metricProvider.ForceFlush(ctx)
		})
	}
	if client.loggerProvider != nil {
		g.Go(func() error {
			return client.loggerProvider.ForceFlush(ctx)
		})
	}
	if client.tracerProvider != nil {
		g.Go(func() error {
			return client.tracerProvider.ForceFlush(ctx)
		})
	}

	return g.Wait()
}

func (client *Client) Shutdown(ctx context.Context) error {
	var errs []error
	if client.metricProvider != nil {
		if err := client.metricProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down metric provider: %w", err))
		}
	}
	if client.tracerProvider != nil {
		if err := client.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down tracer provider: %w", err))
		}
	}
	if client.loggerProvider != nil {
		if err := client.loggerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down logger provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

func setEnvIfNotSet(key, value string) {
	if _, ok := os.LookupEnv(key); !ok {
		os.Setenv(key, value)
	}
}

// Setup installs the global otel providers and the default slog logger.
// With an endpoint, traces, metrics and logs go to it over OTLP/HTTP. Without
// one the exporters come from the OTEL_*_EXPORTER environment and default to none.
func Setup(ctx context.Context, appName, endpoint string) (*Client, error) {
	client := &Client{
		log:      slog.With("component", "telemetry"),
		registry: promclient.NewRegistry(),
	}
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(cause error) {
		client.log.ErrorContext(ctx, "otel error", "error", cause.Error())
	}))

	hostName, _ := os.Hostname()

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(appName),
			semconv.HostName(hostName),
			semconv.ServiceInstanceID(uuid.NewString()),
		),
	)
	if err != nil {
		return nil, err
	}

	promExporter, err := prometheus.New(
		prometheus.WithRegisterer(client.registry),
		prometheus.WithoutScopeInfo(),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}

	var (
		metricReader metric.Reader
		spanExporter trace.SpanExporter
		logExporter  log.Exporter
	)
	if endpoint != "" {
		metricExporter, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithRetry(otlpmetrichttp.RetryConfig{Enabled: false}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metric exporter: %w", err)
		}
		metricReader = metric.NewPeriodicReader(metricExporter)

		spanExporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithRetry(otlptracehttp.RetryConfig{Enabled: false}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize trace exporter: %w", err)
		}

		logExporter, err = otlploghttp.New(ctx,
			otlploghttp.WithEndpoint(endpoint),
			otlploghttp.WithRetry(otlploghttp.RetryConfig{Enabled: false}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize log exporter: %w", err)
		}
	} else {
		// otel defaults to an otlp exporter on localhost, a cli run should stay quiet
		setEnvIfNotSet("OTEL_TRACES_EXPORTER", "none")
		setEnvIfNotSet("OTEL_LOGS_EXPORTER", "none")
		setEnvIfNotSet("OTEL_METRICS_EXPORTER", "none")

		metricReader, err = autoexport.NewMetricReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metric exporter: %w", err)
		}
		spanExporter, err = autoexport.NewSpanExporter(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize trace exporter: %w", err)
		}
		logExporter, err = autoexport.NewLogExporter(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize log exporter: %w", err)
		}
	}

	client.metricProvider = metric.NewMeterProvider(
		metric.WithResource(r),
		metric.WithReader(metricReader),
		metric.WithReader(promExporter),
	)
	otel.SetMeterProvider(client.metricProvider)

	client.tracerProvider = trace.NewTracerProvider(
		trace.WithResource(r),
		trace.WithBatcher(spanExporter, trace.WithExportTimeout(time.Second)),
	)
	otel.SetTracerProvider(client.tracerProvider)

	client.loggerProvider = log.NewLoggerProvider(
		log.WithResource(r),
		log.WithProcessor(log.NewBatchProcessor(logExporter, log.WithExportInterval(time.Second))),
	)
	logglobal.SetLoggerProvider(client.loggerProvider)

	slog.SetDefault(slog.New(slogmulti.Fanout(
		sloglogrus.Option{Level: slog.LevelDebug, Logger: logrus.StandardLogger()}.NewLogrusHandler(),
		otelslog.NewHandler(appName, otelslog.WithLoggerProvider(client.loggerProvider)),
	)))

	// recreate telemetry logger
	client.log = slog.With("component", "telemetry")
	client.log.DebugContext(ctx, "telemetry initialized", "endpoint", endpoint)

	return client, nil
}
