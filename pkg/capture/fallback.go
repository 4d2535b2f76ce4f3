// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package capture

import (
	"encoding/json"
	"fmt"
)

// JSONDumper is the serialization capability a response wrapper type can
// implement to control its own record representation. API client response
// wrappers that carry private state implement this instead of relying on the
// structural fallback.
type JSONDumper interface {
	DumpJSON() ([]byte, error)
}

// toJSONFallback renders an arbitrary call output as JSON text. The chain is
// explicit: a JSONDumper serializes itself, then json.Marshaler, then a
// valid-JSON string passes through, then anything structurally serializable,
// and finally a stringified wrapper object.
func toJSONFallback(v any) string {
	switch t := v.(type) {
	case JSONDumper:
		b, err := t.DumpJSON()
		if err != nil {
			return errorJSON(err, v)
		}
		return string(b)
	case json.Marshaler:
		b, err := json.Marshal(t)
		if err != nil {
			return errorJSON(err, v)
		}
		return string(b)
	case string:
		if json.Valid([]byte(t)) {
			return t
		}
		return wrapOutput(t)
	case nil:
		return wrapOutput("")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return errorJSON(err, v)
		}
		return string(b)
	}
}

func wrapOutput(s string) string {
	b, err := json.Marshal(map[string]string{"output": s})
	if err != nil {
		return fmt.Sprintf(`{"output":%q}`, s)
	}
	return string(b)
}

func errorJSON(err error, v any) string {
	b, merr := json.Marshal(map[string]string{
		"error":  err.Error(),
		"output": fmt.Sprintf("%v", v),
	})
	if merr != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}
