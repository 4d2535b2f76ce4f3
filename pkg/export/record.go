// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/anosys-ai/anosys-go/pkg/attrs"
)

// SpanContextInfo is the identity slice of a span record.
type SpanContextInfo struct {
	TraceID    string `json:"trace_id"`
	SpanID     string `json:"span_id"`
	TraceState string `json:"trace_state"`
}

// SpanStatus mirrors a finished span's status.
type SpanStatus struct {
	Code        string `json:"status_code"`
	Description string `json:"description"`
}

// SpanRecord is the JSON-shaped projection of a finished span, the unit the
// flattener operates on. Attributes start as the flat dotted map the
// instrumentation recorded and are replaced by the reconstructed tree via
// DeserializeAttributes.
type SpanRecord struct {
	Name       string          `json:"name"`
	Context    SpanContextInfo `json:"context"`
	Kind       string          `json:"kind"`
	ParentID   *string         `json:"parent_id"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Status     SpanStatus      `json:"status"`
	Attributes *attrs.Mapping  `json:"attributes"`
	Resource   map[string]any  `json:"resource"`
}

// NewSpanRecord projects a ReadOnlySpan into a SpanRecord. Identifiers are
// 0x-prefixed hex, timestamps RFC 3339 with nanoseconds in UTC.
func NewSpanRecord(span sdktrace.ReadOnlySpan) *SpanRecord {
	sc := span.SpanContext()

	rec := &SpanRecord{
		Name: span.Name(),
		Context: SpanContextInfo{
			TraceID:    "0x" + sc.TraceID().String(),
			SpanID:     "0x" + sc.SpanID().String(),
			TraceState: sc.TraceState().String(),
		},
		Kind:      span.SpanKind().String(),
		StartTime: span.StartTime().UTC().Format(time.RFC3339Nano),
		EndTime:   span.EndTime().UTC().Format(time.RFC3339Nano),
		Status: SpanStatus{
			Code:        span.Status().Code.String(),
			Description: span.Status().Description,
		},
		Attributes: attrs.NewMapping(),
		Resource:   make(map[string]any),
	}

	if parent := span.Parent(); parent.IsValid() {
		id := "0x" + parent.SpanID().String()
		rec.ParentID = &id
	}

	for _, kv := range span.Attributes() {
		rec.Attributes.Set(string(kv.Key), attrs.FromAny(kv.Value.AsInterface()))
	}
	if res := span.Resource(); res != nil {
		for _, kv := range res.Attributes() {
			rec.Resource[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return rec
}

// DeserializeAttributes replaces the record's flat dotted attribute map with
// the reconstructed nested tree.
func (r *SpanRecord) DeserializeAttributes() {
	r.Attributes = attrs.Deserialize(r.Attributes)
}
