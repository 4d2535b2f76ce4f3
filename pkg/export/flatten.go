// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"time"

	"github.com/anosys-ai/anosys-go/pkg/attrs"
	"github.com/anosys-ai/anosys-go/pkg/remap"
)

// SourceTag marks every span record with its producing pipeline.
const SourceTag = "openAI_Telemetry"

// ExtractSpanInfo flattens a span record into the semantic key set the
// logging endpoint understands, then remaps semantic keys to column tokens
// via reg.
//
// raw, when non-nil, is the full serialized span JSON and travels under the
// "raw" key for lossless replay at the endpoint.
func ExtractSpanInfo(reg *remap.Registry, rec *SpanRecord, raw []byte) (map[string]any, error) {
	vars := make(map[string]any)
	assign := func(key string, v any) {
		vars[key] = attrs.Normalize(v)
	}

	assign("name", rec.Name)
	assign("trace_id", rec.Context.TraceID)
	assign("span_id", rec.Context.SpanID)
	assign("trace_state", rec.Context.TraceState)
	assign("parent_id", strOrNil(rec.ParentID))
	assign("start_time", rec.StartTime)
	assign("cvn1", unixSeconds(rec.StartTime))
	assign("end_time", rec.EndTime)
	assign("cvn2", unixSeconds(rec.EndTime))

	a := rec.Attributes

	assign("llm_tools", attrs.StringifyOrNil(attrAt(a, "llm", "tools")))
	assign("llm_token_count", attrs.StringifyOrNil(attrAt(a, "llm", "token_count")))
	assign("llm_output_messages", attrs.StringifyOrNil(messageList(a, "output_messages")))
	assign("llm_input_messages", attrs.StringifyOrNil(messageList(a, "input_messages")))
	assign("llm_model_name", attrs.StringifyOrNil(attrAt(a, "llm", "model_name")))
	assign("llm_invocation_parameters", attrs.StringifyOrNil(attrAt(a, "llm", "invocation_parameters")))

	assign("input", attrs.StringifyOrNil(attrAt(a, "input", "value")))
	assign("output", attrs.StringifyOrNil(attrAt(a, "output", "value")))
	assign("tool", attrs.StringifyOrNil(toolSubtree(a)))
	assign("kind", attrs.StringifyOrNil(attrAt(a, "fi", "span", "kind")))
	assign("from_source", SourceTag)

	assign("resp_id", attrs.StringifyOrNil(responseID(attrAt(a, "output"))))

	if raw != nil {
		assign("raw", string(raw))
	}

	return reg.Reassign(vars, remap.DefaultTracingIndex)
}

// attrAt walks mapping keys down the attribute tree. Missing or non-mapping
// intermediates yield nil.
func attrAt(m *attrs.Mapping, path ...string) attrs.Value {
	if m == nil {
		return nil
	}
	var current attrs.Value = m
	for _, key := range path {
		node, ok := current.(*attrs.Mapping)
		if !ok {
			return nil
		}
		child, ok := node.Get(key)
		if !ok {
			return nil
		}
		current = child
	}
	return current
}

// toolSubtree returns the tool attribute subtree. A span without one yields
// an empty mapping, so the column carries "{}" rather than null.
func toolSubtree(m *attrs.Mapping) attrs.Value {
	if v := attrAt(m, "tool"); v != nil {
		return v
	}
	return attrs.NewMapping()
}

// messageList reads llm.<name>. When the instrumentor nested the list under
// its own name once more (llm.output_messages.output_messages), that inner
// level is the list; a mapping without it carries no messages at all.
// Sequences pass through.
func messageList(m *attrs.Mapping, name string) attrs.Value {
	v := attrAt(m, "llm", name)
	if inner, ok := v.(*attrs.Mapping); ok {
		nested, found := inner.Get(name)
		if !found {
			return nil
		}
		return nested
	}
	return v
}

// responseID extracts a best-effort response identifier from the output
// attribute. Three shapes are probed: a mapping with value.id, a sequence
// whose first mapping element has value.id, and a JSON string parsing into
// either mapping shape.
func responseID(output attrs.Value) attrs.Value {
	switch t := output.(type) {
	case *attrs.Mapping:
		return idUnderValue(t)
	case *attrs.Sequence:
		if t.Len() == 0 {
			return nil
		}
		if m, ok := t.Items[0].(*attrs.Mapping); ok {
			return idUnderValue(m)
		}
	case attrs.Scalar:
		s, ok := t.Val.(string)
		if !ok {
			return nil
		}
		parsed, err := attrs.ParseJSON(s)
		if err != nil {
			return nil
		}
		if m, ok := parsed.(*attrs.Mapping); ok {
			return idUnderValue(m)
		}
	}
	return nil
}

func idUnderValue(m *attrs.Mapping) attrs.Value {
	value, ok := m.Get("value")
	if !ok {
		return nil
	}
	vm, ok := value.(*attrs.Mapping)
	if !ok {
		return nil
	}
	id, ok := vm.Get("id")
	if !ok {
		return nil
	}
	return id
}

// unixSeconds derives epoch seconds from an ISO-8601 timestamp. Unparseable
// or empty input yields nil, which the remapper passes through as null.
func unixSeconds(ts string) any {
	if ts == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Unix()
		}
	}
	return nil
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
