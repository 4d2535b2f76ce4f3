// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/anosys-ai/anosys-go/pkg/logapi"
	"github.com/anosys-ai/anosys-go/pkg/logging"
	"github.com/anosys-ai/anosys-go/pkg/remap"
)

// Compile-time check that Exporter implements SpanExporter.
var _ sdktrace.SpanExporter = (*Exporter)(nil)

// Exporter receives span batches from the tracing SDK, drives
// reconstruction, flattening, and remapping per span, and posts each
// resulting record to the logging endpoint.
//
// Export is best-effort by contract: a record that fails to post is logged
// to the console together with its payload and dropped. The batch always
// reports success upstream so a flaky endpoint never stalls the host
// process's span processors.
type Exporter struct {
	client   *logapi.Client
	registry *remap.Registry
	log      *slog.Logger
	metrics  *Metrics
}

// ExporterOption customizes an Exporter.
type ExporterOption func(*Exporter)

// WithRegistry replaces the default tracing-seeded registry.
func WithRegistry(r *remap.Registry) ExporterOption {
	return func(e *Exporter) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithLogger replaces the default console logger.
func WithLogger(l *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics attaches export-loop metrics.
func WithMetrics(m *Metrics) ExporterOption {
	return func(e *Exporter) { e.metrics = m }
}

// NewExporter returns an Exporter posting through client.
func NewExporter(client *logapi.Client, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		client:   client,
		registry: remap.NewRegistry(remap.TracingSeed()),
		log:      logging.Default().With("component", "export"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportSpans implements sdktrace.SpanExporter.
//
// Every span in the batch is attempted regardless of earlier failures, and
// the batch is always reported as exported: per-record delivery is
// best-effort with console fallback, never partial-failure signaling.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		rec := NewSpanRecord(span)
		rec.DeserializeAttributes()

		raw, err := json.Marshal(rec)
		if err != nil {
			e.log.Error("serialize span record failed", "span", rec.Name, "error", err)
			raw = nil
		}

		record, err := ExtractSpanInfo(e.registry, rec, raw)
		if err != nil {
			e.log.Error("flatten span failed", "span", rec.Name, "error", err)
			e.countFailure(ctx, "flatten")
			continue
		}

		start := time.Now()
		err = e.client.Post(ctx, record)
		e.observePost(ctx, time.Since(start))
		if err != nil {
			e.log.Error("post failed", "span", rec.Name, "error", err, "payload", payloadJSON(record))
			e.countFailure(ctx, "post")
			continue
		}
		e.countExported(ctx)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. The exporter holds no
// connections or buffers of its own.
func (e *Exporter) Shutdown(ctx context.Context) error {
	return ctx.Err()
}

func (e *Exporter) countExported(ctx context.Context) {
	if e.metrics == nil {
		return
	}
	e.metrics.SpansExported.Add(ctx, 1)
}

func (e *Exporter) countFailure(ctx context.Context, stage string) {
	if e.metrics == nil {
		return
	}
	e.metrics.ExportFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

func (e *Exporter) observePost(ctx context.Context, d time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.PostDuration.Record(ctx, d.Seconds())
}

func payloadJSON(record map[string]any) string {
	b, err := json.Marshal(record)
	if err != nil {
		return "<unserializable payload>"
	}
	return string(b)
}
