// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package remap maintains the mapping from semantic field names to the opaque
// column tokens ("cvsN" or a fixed alias) the logging endpoint expects.
package remap

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/anosys-ai/anosys-go/pkg/attrs"
)

// ErrNotMapping reports Reassign input that is neither a mapping nor a JSON
// string decoding to one.
var ErrNotMapping = errors.New("input must be a mapping or a JSON string representing a mapping")

// Default starting indices for freshly seen keys, one per pipeline.
const (
	// DefaultTracingIndex is where the span pipeline starts numbering
	// columns for keys outside its seed.
	DefaultTracingIndex = 20

	// DefaultCaptureIndex is where the function-capture pipeline starts.
	// The two pipelines use disjoint ranges so their ad-hoc columns do not
	// collide at the endpoint.
	DefaultCaptureIndex = 100
)

// Registry assigns output-column tokens to semantic keys.
//
// A Registry grows monotonically: once a key has a token, the token never
// changes for the Registry's lifetime. The mapping is guarded by a mutex, so
// a Registry is safe for concurrent use; each pipeline owns its own instance.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewRegistry returns a Registry pre-populated with a copy of seed. A nil
// seed yields an empty registry.
func NewRegistry(seed map[string]string) *Registry {
	tokens := make(map[string]string, len(seed))
	for k, v := range seed {
		tokens[k] = v
	}
	return &Registry{tokens: tokens}
}

// Token returns the column token currently assigned to key.
func (r *Registry) Token(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[key]
	return tok, ok
}

// Len returns the number of keys with assigned tokens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// Reassign translates a semantic record into a column-token record.
//
// data must be a map[string]any or a JSON string decoding to an object;
// anything else fails with ErrNotMapping. Keys are visited in sorted order so
// token assignment is deterministic. Each key not yet known to the registry
// is assigned "cvs"+i, where i starts at startingIndex and increments per new
// key within this call. The per-call counter deliberately does not coordinate
// with earlier calls: repeated calls with differing key sets can mint the same
// index for different keys. That matches the endpoint's historical contract
// and must not be "fixed" here without a schema change on the other side.
//
// Values are stringified; nil passes through as nil.
func (r *Registry) Reassign(data any, startingIndex int) (map[string]any, error) {
	record, err := asRecord(data)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(record))
	idx := startingIndex

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		tok, ok := r.tokens[key]
		if !ok {
			tok = "cvs" + strconv.Itoa(idx)
			idx++
			r.tokens[key] = tok
		}
		if record[key] == nil {
			out[tok] = nil
			continue
		}
		out[tok] = stringify(record[key])
	}
	return out, nil
}

// asRecord coerces Reassign input into a plain mapping.
func asRecord(data any) (map[string]any, error) {
	switch t := data.(type) {
	case map[string]any:
		return t, nil
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(t), &decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotMapping, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, data)
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := attrs.StringifyOrNil(v).(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
