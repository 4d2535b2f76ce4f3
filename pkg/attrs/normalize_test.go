// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package attrs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_JSONLookingStringCanonicalized(t *testing.T) {
	got := Normalize(`{"a": 1}`)

	want, err := json.Marshal(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, string(want), got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"null value", Null{}, nil},
		{"plain string trimmed", "  hello  ", "hello"},
		{"json array", ` [1, 2] `, "[1,2]"},
		{"invalid json kept", `{"a": broken`, `{"a": broken`},
		{"number untouched", int64(7), int64(7)},
		{"map serialized", map[string]any{"k": "v"}, `{"k":"v"}`},
		{"scalar unwrapped", Scalar{Val: "  x "}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestStringifyOrNil(t *testing.T) {
	m := NewMapping()
	m.Set("k", Scalar{Val: "v"})

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"null value", Null{}, nil},
		{"string kept", "text", "text"},
		{"mapping to json", m, `{"k":"v"}`},
		{"sequence to json", &Sequence{Items: []Value{Scalar{Val: 1.0}}}, "[1]"},
		{"number stringified", int64(42), "42"},
		{"bool stringified", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringifyOrNil(tt.in))
		})
	}
}
