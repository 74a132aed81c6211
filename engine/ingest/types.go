// Package ingest orchestrates the resolution pass that turns raw building
// model records into graph nodes and edges: position resolution, zone
// assignment, relationship extraction, and idempotent upserts.
package ingest

import (
	"context"
	"log/slog"

	"github.com/jma1999/RIG/engine/spatial"
)

// Store is the graph sink the pass writes to. UpsertNode reports whether
// the node was created (as opposed to refined in place); UpsertEdge reports
// whether a new relationship was created.
type Store interface {
	UpsertNode(ctx context.Context, id string, labels []string, props map[string]any) (bool, error)
	UpsertEdge(ctx context.Context, src, dst, relType string) (bool, error)
}

// Deps holds the external dependencies for a resolution pass.
type Deps struct {
	Store  Store
	Logger *slog.Logger
}

// Node is a fully prepared node upsert: identity, labels, and the property
// map to merge under the fill-if-absent policy.
type Node struct {
	ID     string
	Labels []string
	Props  map[string]any
}

// EdgeSpec is a directed relationship between two nodes by global id.
type EdgeSpec struct {
	Src  string
	Dst  string
	Type string
}

// Assignment records the zone an element landed in and how.
type Assignment struct {
	ElementID string
	ZoneID    string
	Method    spatial.Method
}
