// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains the export-loop instruments. All use the "anosys_" prefix.
//
// Thread Safety: safe for concurrent use after creation.
type Metrics struct {
	// SpansExported counts records successfully posted.
	SpansExported metric.Int64Counter

	// ExportFailures counts records dropped, by stage (flatten, post).
	ExportFailures metric.Int64Counter

	// PostDuration records POST latency in seconds.
	PostDuration metric.Float64Histogram
}

// NewMetrics registers the export-loop instruments with meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.SpansExported, err = meter.Int64Counter(
		"anosys_spans_exported_total",
		metric.WithDescription("Span records successfully posted to the logging endpoint"),
	)
	if err != nil {
		return nil, fmt.Errorf("create spans exported counter: %w", err)
	}

	m.ExportFailures, err = meter.Int64Counter(
		"anosys_export_failures_total",
		metric.WithDescription("Span records dropped, by stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("create export failures counter: %w", err)
	}

	m.PostDuration, err = meter.Float64Histogram(
		"anosys_post_duration_seconds",
		metric.WithDescription("Logging endpoint POST latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create post duration histogram: %w", err)
	}

	return m, nil
}
