// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/anosys-ai/anosys-go/pkg/logapi"
	"github.com/anosys-ai/anosys-go/pkg/logging"
)

var (
	// ErrNilContext reports a nil context passed to Setup.
	ErrNilContext = errors.New("context must not be nil")

	// ErrUnknownExporter reports an unrecognized mirror or metrics
	// exporter name.
	ErrUnknownExporter = errors.New("unknown exporter")
)

// setupMu guards the one-time global provider installation.
var setupMu sync.Mutex

// validate checks Config structs.
var validate = validator.New()

// prometheusHandler stores the Prometheus exporter's HTTP handler.
// Access via MetricsHandler().
var (
	prometheusHandler   http.Handler
	prometheusHandlerMu sync.RWMutex
)

// Setup initializes the span pipeline: builds the posting exporter, wraps it
// in a simple or batching span processor, optionally mirrors spans to a
// second exporter, optionally enables Prometheus metrics, and installs the
// resulting TracerProvider globally. Instrumentation wrappers pick it up via
// otel.Tracer().
//
// The returned shutdown function flushes processors and must be called on
// host exit.
//
// Thread Safety: guarded by a package lock; call once at startup.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	setupMu.Lock()
	defer setupMu.Unlock()

	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("shutdown errors: %v", errs)
		}
		return nil
	}

	log := logging.New(logging.Config{
		Level:   logging.ParseLevel(getEnvOr("ANOSYS_LOG_LEVEL", "")),
		Quiet:   cfg.Quiet,
		Service: "anosys",
	})

	// --- METRICS (before the exporter so it can record into them) ---
	var metrics *Metrics
	switch cfg.MetricsExporter {
	case "", "none":
	case "prometheus":
		mp, err := initMeter()
		if err != nil {
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)

		metrics, err = NewMetrics(mp.Meter("anosys.export"))
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MetricsExporter)
	}

	// --- TRACES ---
	client := logapi.NewClient(cfg.APIURL).WithTimeout(cfg.Timeout)
	exporter := NewExporter(client,
		WithLogger(log.With("component", "export")),
		WithMetrics(metrics),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			"",
			attribute.String("service.name", "anosys-go"),
			attribute.String("telemetry.source", SourceTag),
		)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if cfg.UseBatchProcessor {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(
			exporter,
			sdktrace.WithBatchTimeout(batchScheduleDelay),
			sdktrace.WithMaxQueueSize(batchMaxQueueSize),
			sdktrace.WithMaxExportBatchSize(batchMaxBatchSize),
		)))
		log.Info("using batching span processor")
	} else {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
		log.Info("using simple span processor")
	}

	mirror, err := initMirror(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init mirror exporter: %w", err)
	}
	if mirror != nil {
		opts = append(opts, sdktrace.WithBatcher(mirror))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)

	log.Info("span pipeline installed", "endpoint", cfg.APIURL, "batch", cfg.UseBatchProcessor)
	return shutdown, nil
}

// initMirror creates the optional second exporter that receives spans in
// their native form.
func initMirror(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.MirrorExporter {
	case "", "none":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp":
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MirrorExporter)
	}
}

// initMeter creates a Prometheus-backed MeterProvider and stores the promhttp
// handler for MetricsHandler().
func initMeter() (*sdkmetric.MeterProvider, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	prometheusHandlerMu.Lock()
	prometheusHandler = promhttp.Handler()
	prometheusHandlerMu.Unlock()

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	), nil
}

// MetricsHandler returns the HTTP handler for the /metrics endpoint, or nil
// when Prometheus metrics are not enabled.
//
// Thread Safety: safe for concurrent use.
func MetricsHandler() http.Handler {
	prometheusHandlerMu.RLock()
	defer prometheusHandlerMu.RUnlock()
	return prometheusHandler
}
