// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package attrs

import (
	"strconv"
	"strings"
)

// SetNested stores v at the dotted path inside root, creating intermediate
// mappings and sequences as needed. Path segments that parse as non-negative
// integers address sequence elements; when the container at such a segment is
// not a sequence, it is replaced in its parent by a new empty sequence.
// Sequences grow with empty-mapping placeholders, or null placeholders at the
// terminal segment. A terminal string value that looks like JSON is parsed
// before storing; invalid JSON is stored as-is.
//
// Known limitation, kept for parity with the wire history of this schema: a
// path whose first segment is numeric has no parent to rewrite, so the
// replacement sequence is never attached and the value is dropped.
func SetNested(root *Mapping, path string, v Value) {
	parts := strings.Split(path, ".")

	// link remembers where the current container hangs so it can be swapped
	// for a sequence when a numeric segment demands one. It is nil at the
	// root, which is exactly the dropped numeric-first-segment case.
	var link func(Value)
	var current Value = root

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if idx, ok := seqIndex(part); ok {
			seq, isSeq := current.(*Sequence)
			if !isSeq {
				seq = &Sequence{}
				if link != nil {
					link(seq)
				}
				current = seq
			}
			for seq.Len() <= idx {
				seq.Items = append(seq.Items, NewMapping())
			}
			s, j := seq, idx
			link = func(v Value) { s.Items[j] = v }
			current = seq.Items[idx]
			continue
		}

		m, isMap := current.(*Mapping)
		if !isMap {
			// A string key cannot address a sequence or scalar.
			return
		}
		child, exists := m.Get(part)
		if !exists || (child.Kind() != KindMapping && child.Kind() != KindSequence) {
			child = NewMapping()
			m.Set(part, child)
		}
		p, k := m, part
		link = func(v Value) { p.Set(k, v) }
		current = child
	}

	last := parts[len(parts)-1]
	v = parseTerminal(v)

	if idx, ok := seqIndex(last); ok {
		seq, isSeq := current.(*Sequence)
		if !isSeq {
			seq = &Sequence{}
			if link != nil {
				link(seq)
			}
		}
		for seq.Len() <= idx {
			seq.Items = append(seq.Items, Null{})
		}
		seq.Items[idx] = v
		return
	}

	if m, isMap := current.(*Mapping); isMap {
		m.Set(last, v)
	}
}

// Deserialize rebuilds a nested tree from a flat mapping of dotted paths.
// Keys are visited in sorted order so reconstruction is deterministic.
func Deserialize(flat *Mapping) *Mapping {
	tree := NewMapping()
	if flat == nil {
		return tree
	}
	for _, key := range flat.Keys() {
		v, _ := flat.Get(key)
		SetNested(tree, key, v)
	}
	return tree
}

// seqIndex parses a path segment as a sequence index.
func seqIndex(part string) (int, bool) {
	idx, err := strconv.Atoi(part)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// parseTerminal replaces a JSON-looking terminal string with its parsed form.
func parseTerminal(v Value) Value {
	s, ok := v.(Scalar)
	if !ok {
		return v
	}
	str, ok := s.Val.(string)
	if !ok || !LooksLikeJSON(str) {
		return v
	}
	parsed, err := ParseJSON(strings.TrimSpace(str))
	if err != nil {
		return v
	}
	return parsed
}
