package graph

import "context"

// NodeCounts returns node counts grouped by primary label.
func (g *GraphStore) NodeCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH (n) RETURN labels(n)[0] AS label, count(*) AS count`, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		label, _ := rec.Get("label")
		if l, ok := label.(string); ok {
			if c, ok := recordInt(rec, "count"); ok {
				counts[l] = c
			}
		}
	}
	return counts, nil
}

// RelationshipCounts returns relationship counts grouped by type.
func (g *GraphStore) RelationshipCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH ()-[r]->() RETURN type(r) AS type, count(*) AS count`, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		typ, _ := rec.Get("type")
		if t, ok := typ.(string); ok {
			if c, ok := recordInt(rec, "count"); ok {
				counts[t] = c
			}
		}
	}
	return counts, nil
}

// ZoneElementCounts returns, per zone, how many elements are linked to it
// with IN_SPACE. Useful for spot-checking assignment quality after a pass.
func (g *GraphStore) ZoneElementCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		`MATCH (e)-[:IN_SPACE]->(sp:IfcSpace) RETURN sp.globalId AS zone, count(e) AS count`, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		zone, _ := rec.Get("zone")
		if z, ok := zone.(string); ok {
			if c, ok := recordInt(rec, "count"); ok {
				counts[z] = c
			}
		}
	}
	return counts, nil
}
