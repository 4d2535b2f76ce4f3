// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package capture

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dumper struct {
	b   []byte
	err error
}

func (d dumper) DumpJSON() ([]byte, error) { return d.b, d.err }

type marshaler struct{ s string }

func (m marshaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"wrapped": m.s})
}

func TestToJSONFallback(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"dumper wins", dumper{b: []byte(`{"self":"serialized"}`)}, `{"self":"serialized"}`},
		{"json marshaler", marshaler{s: "v"}, `{"wrapped":"v"}`},
		{"valid json string passes through", `{"a":1}`, `{"a":1}`},
		{"plain string wrapped", "hello", `{"output":"hello"}`},
		{"nil wrapped", nil, `{"output":""}`},
		{"struct marshaled", struct {
			N int `json:"n"`
		}{N: 2}, `{"n":2}`},
		{"map marshaled", map[string]int{"k": 1}, `{"k":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toJSONFallback(tt.v))
		})
	}
}

func TestToJSONFallback_DumperError(t *testing.T) {
	got := toJSONFallback(dumper{err: errors.New("private state")})

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, "private state", parsed["error"])
	assert.Contains(t, parsed, "output")
}

func TestToJSONFallback_Unserializable(t *testing.T) {
	got := toJSONFallback(map[string]any{"fn": func() {}})

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.NotEmpty(t, parsed["error"])
}
