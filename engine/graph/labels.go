// Package graph merges normalized building-model entities and relationships
// into a Neo4j property graph under idempotent upsert semantics.
package graph

import "strings"

// spatialTypes are the container entity types that keep their own label.
var spatialTypes = map[string]bool{
	"IfcProject":        true,
	"IfcSite":           true,
	"IfcBuilding":       true,
	"IfcBuildingStorey": true,
	"IfcSpace":          true,
}

// labelRule maps a type-name prefix to a coarse umbrella label.
type labelRule struct {
	prefix string
	label  string
}

// Ordered: first match wins.
var labelRules = []labelRule{
	{"IfcSystem", "IfcSystem"},
	{"IfcFlow", "IfcDistributionElement"},
	{"IfcDistribution", "IfcDistributionElement"},
	{"IfcElement", "IfcElement"},
}

// CoarseLabel maps a raw entity type to its coarse graph-label category.
// Spatial-container types map to themselves, distribution/flow/system
// families collapse to umbrella labels, and anything unmatched falls back
// to itself. Total: never fails.
func CoarseLabel(typeName string) string {
	if spatialTypes[typeName] {
		return typeName
	}
	for _, r := range labelRules {
		if strings.HasPrefix(typeName, r.prefix) {
			return r.label
		}
	}
	return typeName
}

// IsSpatialType reports whether a type is one of the spatial-container
// entity types (zones and their ancestors).
func IsSpatialType(typeName string) bool {
	return spatialTypes[typeName]
}

// sanitizeLabel strips every character that is not legal in an unquoted
// Cypher identifier. Labels are interpolated into query text, so this is a
// hard requirement, not cosmetics.
func sanitizeLabel(l string) string {
	safe := make([]byte, 0, len(l))
	for i := 0; i < len(l); i++ {
		c := l[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			safe = append(safe, c)
		}
	}
	return string(safe)
}

// sanitizeRelType sanitizes and uppercases a relationship type, falling
// back to RELATED_TO for degenerate input.
func sanitizeRelType(t string) string {
	safe := []byte(sanitizeLabel(t))
	if len(safe) == 0 {
		return "RELATED_TO"
	}
	for i := range safe {
		if safe[i] >= 'a' && safe[i] <= 'z' {
			safe[i] -= 32
		}
	}
	return string(safe)
}
