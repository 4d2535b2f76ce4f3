// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/anosys-ai/anosys-go/pkg/logapi"
)

func sumCounter(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestNewMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m.SpansExported)
	require.NotNil(t, m.ExportFailures)
	require.NotNil(t, m.PostDuration)
}

func TestExporter_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	okSrv := httptest.NewServer(&collectServer{})
	defer okSrv.Close()
	failSrv := httptest.NewServer(&collectServer{status: http.StatusBadGateway})
	defer failSrv.Close()

	ctx := context.Background()
	spans := []sdktrace.ReadOnlySpan{stubSpan(t, false)}

	ok := NewExporter(logapi.NewClient(okSrv.URL), WithLogger(quietLogger()), WithMetrics(m))
	require.NoError(t, ok.ExportSpans(ctx, spans))

	failing := NewExporter(logapi.NewClient(failSrv.URL), WithLogger(quietLogger()), WithMetrics(m))
	require.NoError(t, failing.ExportSpans(ctx, spans))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.EqualValues(t, 1, sumCounter(rm, "anosys_spans_exported_total"))
	assert.EqualValues(t, 1, sumCounter(rm, "anosys_export_failures_total"))
}
