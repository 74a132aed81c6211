package ingest

import (
	"sort"
	"strings"

	"github.com/jma1999/RIG/engine/record"
)

// Relationship records carry a single "relating" endpoint and one or more
// "related" endpoints. Each IfcRel type maps to a graph relationship with
// a fixed direction; port and element connections are symmetric and emit
// both directions.

type relRule struct {
	relatingKeys []string
	relatedKeys  []string
	relType      string
	// reverse points the edge related -> relating instead.
	reverse bool
	// symmetric emits an edge in both directions.
	symmetric bool
}

var relRules = map[string]relRule{
	"IfcRelContainedInSpatialStructure": {
		relatingKeys: []string{"RelatingStructure", "relatingStructure", "RelatingSpatialStructure", "relatingSpatialStructure"},
		relatedKeys:  []string{"RelatedElements", "relatedElements"},
		relType:      "CONTAINS",
	},
	"IfcRelAggregates": {
		relatingKeys: []string{"RelatingObject", "relatingObject"},
		relatedKeys:  []string{"RelatedObjects", "relatedObjects"},
		relType:      "AGGREGATES",
	},
	"IfcRelServicesBuildings": {
		relatingKeys: []string{"RelatingSystem", "relatingSystem"},
		relatedKeys:  []string{"RelatedBuildings", "relatedBuildings"},
		relType:      "SERVICES",
	},
	"IfcRelAssignsToGroup": {
		relatingKeys: []string{"RelatingGroup", "relatingGroup"},
		relatedKeys:  []string{"RelatedObjects", "relatedObjects"},
		relType:      "ASSIGNED_TO_SYSTEM",
		reverse:      true,
	},
	"IfcRelConnectsPortToElement": {
		relatingKeys: []string{"RelatingPort", "relatingPort"},
		relatedKeys:  []string{"RelatedElement", "relatedElement"},
		relType:      "HAS_PORT",
		reverse:      true,
	},
	"IfcRelConnectsPorts": {
		relatingKeys: []string{"RelatingPort", "relatingPort"},
		relatedKeys:  []string{"RelatedPort", "relatedPort"},
		relType:      "PORT_CONNECTED_TO",
		symmetric:    true,
	},
	"IfcRelConnectsElements": {
		relatingKeys: []string{"RelatingElement", "relatingElement"},
		relatedKeys:  []string{"RelatedElement", "relatedElement"},
		relType:      "CONNECTED_TO",
		symmetric:    true,
	},
}

// Extraction is the result of mining relationship records: the edges to
// upsert and the authoritative element-to-space containment they declare.
type Extraction struct {
	Edges []EdgeSpec
	// Containers maps element id to the IfcSpace id that authoritatively
	// contains it.
	Containers map[string]string
}

// ExtractEdges walks all relationship records in the table and produces
// the edges to upsert plus the authoritative container map. Types with
// no rule are ignored. Endpoints that cannot be resolved to an id are
// dropped silently; endpoints that resolve to ids absent from the table
// are kept, the store decides whether they are dangling. Records are
// visited in sorted-id order so a doubly contained element resolves to
// the same container on every run.
func ExtractEdges(table record.Table) Extraction {
	ext := Extraction{Containers: make(map[string]string)}

	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := table[id]
		// Some exporters emit subtype names with a trailing underscore.
		typ := strings.TrimSuffix(rec.Type(), "_")
		rule, ok := relRules[typ]
		if !ok {
			if !strings.HasPrefix(typ, "IfcRelAssigns") {
				continue
			}
			// Subtyped group assignments behave like IfcRelAssignsToGroup.
			rule = relRules["IfcRelAssignsToGroup"]
		}

		relating := endpointID(rec, rule.relatingKeys)
		if relating == "" {
			continue
		}

		for _, related := range endpointIDs(rec, rule.relatedKeys) {
			src, dst := relating, related
			if rule.reverse {
				src, dst = related, relating
			}
			ext.Edges = append(ext.Edges, EdgeSpec{Src: src, Dst: dst, Type: rule.relType})
			if rule.symmetric {
				ext.Edges = append(ext.Edges, EdgeSpec{Src: dst, Dst: src, Type: rule.relType})
			}

			if rule.relType == "CONTAINS" {
				if structure, ok := table.Deref(mustGet(rec, rule.relatingKeys)); ok && structure.Type() == "IfcSpace" {
					ext.Containers[related] = relating
				}
			}
		}
	}
	return ext
}

func mustGet(rec record.Record, keys []string) any {
	v, _ := rec.Get(keys...)
	return v
}

func endpointID(rec record.Record, keys []string) string {
	v, ok := rec.Get(keys...)
	if !ok {
		return ""
	}
	return record.RefID(v)
}

func endpointIDs(rec record.Record, keys []string) []string {
	v, ok := rec.Get(keys...)
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		if id := record.RefID(v); id != "" {
			return []string{id}
		}
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, item := range list {
		if id := record.RefID(item); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
