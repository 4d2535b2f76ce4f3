// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package remap

// TracingSeed returns the fixed column assignments for the span pipeline.
// These tokens are part of the endpoint's schema; changing one breaks every
// dashboard built on it.
func TracingSeed() map[string]string {
	return map[string]string{
		"cvn1":                      "cvn1",
		"cvn2":                      "cvn2",
		"name":                      "otel_name",
		"trace_id":                  "otel_trace_id",
		"span_id":                   "otel_span_id",
		"trace_state":               "otel_trace_flags",
		"parent_id":                 "otel_parent_span_id",
		"start_time":                "otel_start_time",
		"end_time":                  "otel_end_time",
		"kind":                      "otel_kind",
		"resp_id":                   "otel_status_message",
		"input":                     "cvs1",
		"output":                    "cvs2",
		"tool":                      "cvs3",
		"llm_tools":                 "cvs4",
		"llm_token_count":           "cvs5",
		"llm_output_messages":       "cvs6",
		"llm_input_messages":        "cvs7",
		"llm_model_name":            "cvs8",
		"llm_invocation_parameters": "cvs9",
		"from_source":               "cvs200",
		"raw":                       "cvs199",
	}
}

// CaptureSeed returns the fixed column assignments for the function-capture
// pipeline.
func CaptureSeed() map[string]string {
	return map[string]string{
		"input":  "cvs14",
		"output": "cvs15",
		"source": "cvs200",
	}
}
