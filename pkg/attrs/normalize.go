// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package attrs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize prepares a value for a flattened record column.
//
// nil stays nil. A string that looks like JSON is re-serialized into compact
// canonical form; if it merely looks like JSON but does not parse, the
// original text is kept. Mappings, sequences, and plain container types
// serialize to compact JSON text. Every other scalar passes through unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Null:
		return nil
	case string:
		trimmed := strings.TrimSpace(t)
		if LooksLikeJSON(trimmed) {
			if canonical, ok := CanonicalJSON(trimmed); ok {
				return canonical
			}
		}
		return trimmed
	case *Mapping, *Sequence:
		return marshalOrSprint(t)
	case map[string]any, []any:
		return marshalOrSprint(t)
	case Scalar:
		return Normalize(t.Val)
	default:
		return v
	}
}

// StringifyOrNil renders a value as text for an input/output column: nil stays
// nil, mappings and sequences become compact JSON, everything else is
// stringified.
func StringifyOrNil(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Null:
		return nil
	case string:
		return t
	case *Mapping, *Sequence:
		return marshalOrSprint(t)
	case map[string]any, []any:
		return marshalOrSprint(t)
	case Scalar:
		return StringifyOrNil(t.Val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func marshalOrSprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
