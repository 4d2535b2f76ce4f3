// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package export turns finished spans into flattened records on the Anosys
// logging endpoint.
//
// # Pipeline
//
// For each span handed over by the tracing SDK:
//
//	ReadOnlySpan → SpanRecord → attribute reconstruction (pkg/attrs)
//	            → ExtractSpanInfo (flatten) → remap (pkg/remap) → HTTP POST
//
// Delivery is best-effort: a record that fails to post is written to the
// console with its payload and dropped, and the batch is always acknowledged
// upstream. There is no retry and no partial-failure signaling — the SDK is a
// guest in the host process and must never stall its span processors.
//
// # Usage
//
//	cfg := export.DefaultConfig()
//	cfg.APIURL = "https://logs.example.com/ingest"
//	shutdown, err := export.Setup(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("setup telemetry: %w", err)
//	}
//	defer shutdown(ctx)
//
// After Setup, any tracer obtained from otel.Tracer() feeds the pipeline; the
// instrument package provides a ready-made OpenAI client wrapper.
//
// # Environment Variables
//
//   - ANOSYS_API_URL: logging endpoint URL
//   - ANOSYS_USE_BATCH: "1"/"true" selects the batching span processor
//   - ANOSYS_LOG_LEVEL: console log level (debug, info, warn, error)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: endpoint for the optional OTLP mirror
package export
