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
	"sort"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	// KindNull is the JSON null / absent value.
	KindNull Kind = iota

	// KindScalar is a string, bool, or number.
	KindScalar

	// KindSequence is an ordered list of values.
	KindSequence

	// KindMapping is a string-keyed object.
	KindMapping
)

// Value is a tagged variant over the four shapes attribute data can take.
//
// Everything flowing through the flattener and the reconstructor is a Value,
// so shape decisions are explicit type switches instead of runtime probing of
// arbitrary interfaces.
type Value interface {
	Kind() Kind
	json.Marshaler
}

// Null is the null value. The zero Null is ready to use.
type Null struct{}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Scalar holds a single string, bool, or numeric value.
type Scalar struct {
	Val any
}

// Kind implements Value.
func (Scalar) Kind() Kind { return KindScalar }

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) { return json.Marshal(s.Val) }

// String returns the scalar rendered as text, the way a log column expects it.
func (s Scalar) String() string {
	if str, ok := s.Val.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", s.Val)
}

// Sequence is an ordered list of values. Use the pointer form so growth
// performed by the reconstructor is visible through the containing tree.
type Sequence struct {
	Items []Value
}

// Kind implements Value.
func (*Sequence) Kind() Kind { return KindSequence }

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.Items) }

// MarshalJSON implements json.Marshaler.
func (s *Sequence) MarshalJSON() ([]byte, error) {
	if s.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Items)
}

// Mapping is a string-keyed object. Use the pointer form so inserts performed
// by the reconstructor are visible through the containing tree.
type Mapping struct {
	items map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{items: make(map[string]Value)}
}

// Kind implements Value.
func (*Mapping) Kind() Kind { return KindMapping }

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Set stores v under key, replacing any previous value.
func (m *Mapping) Set(key string, v Value) {
	if m.items == nil {
		m.items = make(map[string]Value)
	}
	m.items[key] = v
}

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.items) }

// Keys returns the mapping's keys in sorted order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON implements json.Marshaler. Keys serialize in sorted order, which
// is the canonical form for everything this module emits.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	if m.items == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.items)
}

// FromAny converts a decoded-JSON style Go value (map[string]any, []any,
// scalars, nil) into a Value. Values pass through unchanged. Anything else is
// wrapped as a scalar and serialized by encoding/json later.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case map[string]any:
		m := NewMapping()
		for k, item := range t {
			m.Set(k, FromAny(item))
		}
		return m
	case []any:
		seq := &Sequence{Items: make([]Value, 0, len(t))}
		for _, item := range t {
			seq.Items = append(seq.Items, FromAny(item))
		}
		return seq
	case []string:
		seq := &Sequence{Items: make([]Value, 0, len(t))}
		for _, item := range t {
			seq.Items = append(seq.Items, Scalar{Val: item})
		}
		return seq
	case []bool:
		seq := &Sequence{Items: make([]Value, 0, len(t))}
		for _, item := range t {
			seq.Items = append(seq.Items, Scalar{Val: item})
		}
		return seq
	case []int64:
		seq := &Sequence{Items: make([]Value, 0, len(t))}
		for _, item := range t {
			seq.Items = append(seq.Items, Scalar{Val: item})
		}
		return seq
	case []float64:
		seq := &Sequence{Items: make([]Value, 0, len(t))}
		for _, item := range t {
			seq.Items = append(seq.Items, Scalar{Val: item})
		}
		return seq
	default:
		return Scalar{Val: v}
	}
}

// ParseJSON decodes s into a Value.
func ParseJSON(s string) (Value, error) {
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, fmt.Errorf("parse json value: %w", err)
	}
	return FromAny(decoded), nil
}

// LooksLikeJSON reports whether s, after trimming, starts like a JSON object
// or array. It says nothing about validity.
func LooksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// CanonicalJSON re-serializes a JSON-looking string into compact canonical
// form. The second return is false when s is not valid JSON, in which case the
// caller keeps the original text.
func CanonicalJSON(s string) (string, bool) {
	v, err := ParseJSON(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(out), true
}
