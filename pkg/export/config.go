// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"os"
	"time"

	"github.com/anosys-ai/anosys-go/pkg/logapi"
)

// DefaultAPIURL is the placeholder logging endpoint used when no URL is
// configured. Real deployments always set their tenant URL.
const DefaultAPIURL = logapi.DefaultAPIURL

// Batch processor settings, kept identical to the historical pipeline so
// batch timing at the endpoint is unchanged.
const (
	batchScheduleDelay = 1 * time.Second
	batchMaxQueueSize  = 2048
	batchMaxBatchSize  = 512
)

// Config controls the span pipeline.
//
// All fields have defaults via DefaultConfig().
type Config struct {
	// APIURL is the logging endpoint records are posted to.
	APIURL string `json:"api_url" validate:"required,url"`

	// UseBatchProcessor selects the batching span processor over the
	// simple per-span one. Batching trades latency for fewer wakeups.
	UseBatchProcessor bool `json:"use_batch_processor"`

	// Timeout bounds each POST attempt.
	Timeout time.Duration `json:"timeout"`

	// MirrorExporter optionally sends the same spans, unflattened, to a
	// second exporter: "none", "stdout", or "otlp".
	MirrorExporter string `json:"mirror_exporter" validate:"omitempty,oneof=none stdout otlp"`

	// OTLPEndpoint is the receiver address for the "otlp" mirror.
	OTLPEndpoint string `json:"otlp_endpoint"`

	// OTLPInsecure disables TLS for the "otlp" mirror.
	OTLPInsecure bool `json:"otlp_insecure"`

	// MetricsExporter selects export-loop metrics: "none" or "prometheus".
	MetricsExporter string `json:"metrics_exporter" validate:"omitempty,oneof=none prometheus"`

	// Quiet silences the SDK's console logging.
	Quiet bool `json:"quiet"`
}

// DefaultConfig returns the defaults, with environment overrides:
//
//   - ANOSYS_API_URL: logging endpoint URL
//   - ANOSYS_USE_BATCH: "1"/"true" selects the batching processor
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP mirror endpoint
func DefaultConfig() Config {
	return Config{
		APIURL:            getEnvOr("ANOSYS_API_URL", DefaultAPIURL),
		UseBatchProcessor: boolEnv("ANOSYS_USE_BATCH"),
		Timeout:           0, // 0 keeps the logapi default (5s)
		MirrorExporter:    "none",
		OTLPEndpoint:      getEnvOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure:      true,
		MetricsExporter:   "none",
	}
}

// getEnvOr returns the environment variable value or the fallback.
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	default:
		return false
	}
}
