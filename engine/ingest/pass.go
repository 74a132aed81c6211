package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jma1999/RIG/engine/graph"
	"github.com/jma1999/RIG/engine/record"
	"github.com/jma1999/RIG/engine/spatial"
	"github.com/jma1999/RIG/pkg/fn"
)

// passState threads the intermediate artifacts of one pass through the
// stage pipeline.
type passState struct {
	deps   Deps
	cfg    Config
	table  record.Table
	report *Report

	resolver    *spatial.Resolver
	positions   map[string]spatial.Vec3
	zones       []spatial.Zone
	extraction  Extraction
	elevations  map[string]float64
	nodes       []Node
	assignments []Assignment
}

// Run executes one resolution pass over the table: resolve placements,
// build zone volumes, extract relationships, assign zones, then merge
// nodes, edges, and assignment edges into the store. All node upserts
// complete before the first edge upsert.
func Run(ctx context.Context, deps Deps, table record.Table, cfg Config) (*Report, error) {
	cfg.ApplyDefaults()
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	start := time.Now()
	state := &passState{
		deps:   deps,
		cfg:    cfg,
		table:  table,
		report: newReport(cfg.Source),
	}

	pipeline := fn.Pipeline(
		fn.TracedStage("resolve_placements", resolvePlacements),
		fn.TracedStage("build_zones", buildZones),
		fn.TracedStage("extract_relationships", extractRelationships),
		fn.TracedStage("assign_zones", assignZones),
		fn.TracedStage("assemble_nodes", assembleNodes),
		fn.TracedStage("merge_nodes", mergeNodes),
		fn.TracedStage("merge_edges", mergeEdges),
	)

	result := pipeline(ctx, state)
	if result.IsErr() {
		_, err := result.Unwrap()
		return state.report, err
	}

	state.report.Duration = time.Since(start)
	state.report.Log(deps.Logger)
	return state.report, nil
}

func resolvePlacements(_ context.Context, st *passState) fn.Result[*passState] {
	st.resolver = spatial.NewResolver(st.table)
	st.positions = make(map[string]spatial.Vec3)

	for id, rec := range st.table {
		if rec.IsRelationship() {
			continue
		}
		pos, ok := st.resolver.WorldPosition(rec)
		if !ok {
			st.report.Unresolved++
			continue
		}
		st.positions[id] = pos
	}
	st.report.CyclesTruncated = st.resolver.CyclesTruncated
	return fn.Ok(st)
}

func buildZones(_ context.Context, st *passState) fn.Result[*passState] {
	for id, rec := range st.table {
		if rec.Type() != "IfcSpace" {
			continue
		}
		pos, hasPos := st.positions[id]
		vol, ok := zoneVolume(rec, pos, hasPos)
		if !ok {
			continue
		}
		st.zones = append(st.zones, spatial.Zone{ID: id, Volume: vol})
	}
	sort.Slice(st.zones, func(i, j int) bool { return st.zones[i].ID < st.zones[j].ID })
	return fn.Ok(st)
}

// zoneVolume prefers tessellated vertex geometry, then a degenerate point
// volume at the zone's resolved position.
func zoneVolume(rec record.Record, pos spatial.Vec3, hasPos bool) (spatial.AABB, bool) {
	if v, ok := rec.Get("Vertices", "vertices"); ok {
		if verts := floatList(v); len(verts) >= 3 {
			if vol, ok := spatial.VolumeFromVertices(verts); ok {
				return vol, true
			}
		}
	}
	if hasPos {
		return spatial.PointVolume(pos), true
	}
	return spatial.AABB{}, false
}

func floatList(v any) []float64 {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(list))
	for _, item := range list {
		n, ok := record.AsNumber(item)
		if !ok {
			return nil
		}
		out = append(out, n)
	}
	return out
}

func extractRelationships(_ context.Context, st *passState) fn.Result[*passState] {
	st.extraction = ExtractEdges(st.table)
	st.elevations = StoreyElevations(st.table, st.resolver, st.extraction.Edges, st.positions)
	return fn.Ok(st)
}

func assignZones(_ context.Context, st *passState) fn.Result[*passState] {
	assigner := spatial.NewAssigner(st.cfg.Tolerances(), st.zones)

	ids := make([]string, 0, len(st.table))
	for id := range st.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := st.table[id]
		if rec.IsRelationship() || graph.IsSpatialType(rec.Type()) {
			continue
		}
		pos, hasPos := st.positions[id]
		el := spatial.Element{
			ID:          id,
			ContainerID: st.extraction.Containers[id],
			Pos:         pos,
			HasPos:      hasPos,
		}
		zoneID, method := assigner.Assign(el)
		st.report.countAssignment(method)
		if method == spatial.Unassigned {
			continue
		}
		st.assignments = append(st.assignments, Assignment{ElementID: id, ZoneID: zoneID, Method: method})
	}
	return fn.Ok(st)
}

func assembleNodes(_ context.Context, st *passState) fn.Result[*passState] {
	for id, rec := range st.table {
		if rec.IsRelationship() {
			continue
		}
		typ := rec.Type()
		props := map[string]any{
			"globalId": id,
			"type":     typ,
			"source":   st.cfg.Source,
		}
		labels := []string{typ}
		if coarse := graph.CoarseLabel(typ); coarse != typ {
			labels = append(labels, coarse)
		}
		if name := rec.Name(); name != "" {
			props["name"] = name
			// Generic proxies named like diffusers or grilles are
			// distribution terminals the exporter failed to type.
			if typ == "IfcBuildingElementProxy" && record.TerminalLike(name) {
				labels = append(labels, "IfcFlowTerminal")
				props["family"] = record.FamilyPrefix(name)
				st.report.TerminalsTagged++
			}
		}
		if pos, ok := st.positions[id]; ok {
			props["z"] = pos.Z
		}
		if elev, ok := st.elevations[id]; ok {
			props["elev"] = elev
		}
		for k, v := range record.FlattenPsets(rec) {
			props[k] = v
		}
		st.nodes = append(st.nodes, Node{
			ID:     id,
			Labels: labels,
			Props:  props,
		})
	}
	sort.Slice(st.nodes, func(i, j int) bool { return st.nodes[i].ID < st.nodes[j].ID })
	return fn.Ok(st)
}

func mergeNodes(ctx context.Context, st *passState) fn.Result[*passState] {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(st.cfg.Workers)

	for _, node := range st.nodes {
		node := node
		g.Go(func() error {
			created, err := st.deps.Store.UpsertNode(gctx, node.ID, node.Labels, node.Props)
			if err != nil {
				return fmt.Errorf("upsert node %s: %w", node.ID, err)
			}
			mu.Lock()
			if created {
				st.report.NodesCreated++
			} else {
				st.report.NodesRefined++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fn.Err[*passState](err)
	}
	return fn.Ok(st)
}

func mergeEdges(ctx context.Context, st *passState) fn.Result[*passState] {
	edges := make([]EdgeSpec, 0, len(st.extraction.Edges)+len(st.assignments))
	edges = append(edges, st.extraction.Edges...)
	for _, a := range st.assignments {
		edges = append(edges, EdgeSpec{Src: a.ElementID, Dst: a.ZoneID, Type: "IN_SPACE"})
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(st.cfg.Workers)

	for _, edge := range edges {
		edge := edge
		g.Go(func() error {
			created, err := st.deps.Store.UpsertEdge(gctx, edge.Src, edge.Dst, edge.Type)
			if err != nil {
				if errors.Is(err, graph.ErrDanglingEndpoint) {
					mu.Lock()
					st.report.DanglingEdges++
					mu.Unlock()
					st.deps.Logger.Warn("skipping edge with missing endpoint",
						"src", edge.Src, "dst", edge.Dst, "type", edge.Type)
					return nil
				}
				return fmt.Errorf("upsert edge %s-[%s]->%s: %w", edge.Src, edge.Type, edge.Dst, err)
			}
			mu.Lock()
			if created {
				st.report.EdgesCreated++
			} else {
				st.report.EdgesExisted++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fn.Err[*passState](err)
	}
	return fn.Ok(st)
}
