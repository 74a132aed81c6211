// Package record models the generic attribute records produced by upstream
// building-model exporters. Exporters disagree about field casing and
// nesting, so lookups go through a single normalization boundary instead of
// per-shape branching at every call site.
package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is an opaque mapping from field name to value. Values may be
// scalars, nested mappings, sequences, or reference tokens.
type Record map[string]any

// Table maps a globally unique identifier to its Record. It is built once
// per ingestion pass and read-only thereafter.
type Table map[string]Record

// Get tries each candidate key at the top level of the record, then inside
// a nested "attributes" sub-map, and returns the first present value (even
// if it is nil). ok is false only when no candidate key exists anywhere.
func (r Record) Get(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v, true
		}
	}
	attrs, _ := r["attributes"].(map[string]any)
	for _, k := range keys {
		if v, ok := attrs[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// Name returns the record's display name, trying the naming conventions seen
// across exporters. Empty string when none is present.
func (r Record) Name() string {
	for _, k := range []string{"Name", "LongName", "name", "longName", "ObjectName"} {
		if v, ok := r.Get(k); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// Type returns the record's entity type string, or "Unknown".
func (r Record) Type() string {
	for _, k := range []string{"type", "class", "ifcType"} {
		if v, ok := r.Get(k); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	if v, ok := r.Get("schema"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "Unknown"
}

// IsRelationship reports whether the record describes a typed relationship
// between other records rather than an entity.
func (r Record) IsRelationship() bool {
	return strings.HasPrefix(r.Type(), "IfcRel")
}

// ParseTable decodes an exporter document into a Table. Known document
// shapes: {"objects": {id: {...}}}, {"instances": {id: {...}}}, or a flat
// id→record mapping.
func ParseTable(data []byte) (Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("record: parse document: %w", err)
	}
	for _, key := range []string{"objects", "instances"} {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var inst map[string]Record
		if err := json.Unmarshal(raw, &inst); err == nil {
			return Table(inst), nil
		}
	}
	// Flat shape: the document itself is the id→record mapping.
	flat := make(Table, len(doc))
	for id, raw := range doc {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("record: entry %q is not a record", id)
		}
		flat[id] = rec
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("record: unsupported document structure")
	}
	return flat, nil
}
