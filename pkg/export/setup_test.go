// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetup_NilContext(t *testing.T) {
	_, err := Setup(nil, DefaultConfig()) //nolint:staticcheck // nil ctx is the case under test
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestSetup_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing url", Config{}},
		{"malformed url", Config{APIURL: "not a url"}},
		{"bogus mirror", Config{APIURL: "https://example.com", MirrorExporter: "jaeger"}},
		{"bogus metrics", Config{APIURL: "https://example.com", MetricsExporter: "statsd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Setup(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestSetup_Lifecycle(t *testing.T) {
	collector := &collectServer{}
	srv := httptest.NewServer(collector)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIURL = srv.URL
	cfg.Quiet = true

	shutdown, err := Setup(context.Background(), cfg)
	require.NoError(t, err)

	// The global provider now routes spans through the posting exporter.
	_, span := otel.Tracer("test").Start(context.Background(), "Wrapped")
	span.SetAttributes(attribute.String("llm.model_name", "gpt-4o-mini"))
	span.End()

	require.NoError(t, shutdown(context.Background()))

	records := collector.records()
	require.Len(t, records, 1)
	assert.Equal(t, "Wrapped", records[0]["otel_name"])
	assert.Equal(t, "gpt-4o-mini", records[0]["cvs8"])
}

func TestSetup_BatchProcessorFlushesOnShutdown(t *testing.T) {
	collector := &collectServer{}
	srv := httptest.NewServer(collector)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIURL = srv.URL
	cfg.UseBatchProcessor = true
	cfg.Quiet = true

	shutdown, err := Setup(context.Background(), cfg)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "Buffered")
	span.End()

	// Nothing has a chance to post until shutdown flushes the queue.
	require.NoError(t, shutdown(context.Background()))
	require.Len(t, collector.records(), 1)
	assert.Equal(t, "Buffered", collector.records()[0]["otel_name"])
}

func TestMetricsHandler_NilWithoutPrometheus(t *testing.T) {
	assert.Nil(t, MetricsHandler())
}
