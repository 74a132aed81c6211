package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/time/rate"

	"github.com/jma1999/RIG/pkg/resilience"
)

// DefaultRefreshable are the node property keys always overwritten by later
// passes: type classification and resolved elevations improve as more source
// files arrive, so the latest value is the authoritative one.
var DefaultRefreshable = []string{"type", "z", "elev"}

// GraphStore provides idempotent merge operations over a Neo4j database.
// Every write is a read-modify-write inside one managed transaction, so
// repeated or concurrent upserts with the same arguments converge to the
// same graph state.
type GraphStore struct {
	opener      SessionOpener
	driver      neo4j.DriverWithContext
	limiter     *rate.Limiter
	breaker     *resilience.Breaker
	refreshable map[string]bool
	log         *slog.Logger
}

// Option configures a GraphStore.
type Option func(*GraphStore)

// WithDatabase selects a named database instead of the server default.
func WithDatabase(name string) Option {
	return func(g *GraphStore) {
		if o, ok := g.opener.(*driverOpener); ok {
			o.database = name
		}
	}
}

// WithRefreshable replaces the set of always-overwritten property keys.
func WithRefreshable(keys []string) Option {
	return func(g *GraphStore) {
		g.refreshable = make(map[string]bool, len(keys))
		for _, k := range keys {
			g.refreshable[k] = true
		}
	}
}

// WithWriteRate throttles store writes to n per second with the given burst.
func WithWriteRate(n float64, burst int) Option {
	return func(g *GraphStore) {
		g.limiter = rate.NewLimiter(rate.Limit(n), burst)
	}
}

// WithLogger sets the store logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *GraphStore) { g.log = log }
}

// New creates a GraphStore over a Neo4j driver.
func New(driver neo4j.DriverWithContext, opts ...Option) *GraphStore {
	g := NewWithOpener(&driverOpener{driver: driver}, opts...)
	g.driver = driver
	return g
}

// NewWithOpener creates a GraphStore over a custom session opener. Tests
// use it to exercise merge logic without a live database.
func NewWithOpener(opener SessionOpener, opts ...Option) *GraphStore {
	g := &GraphStore{
		opener:  opener,
		limiter: rate.NewLimiter(rate.Inf, 0),
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		log:     slog.Default(),
	}
	WithRefreshable(DefaultRefreshable)(g)
	for _, o := range opts {
		o(g)
	}
	return g
}

// Verify checks store connectivity. The store is the only dependency whose
// loss is fatal to a pass, so callers should verify before starting one.
func (g *GraphStore) Verify(ctx context.Context) error {
	if g.driver == nil {
		return nil
	}
	return g.driver.VerifyConnectivity(ctx)
}

// Unavailable reports whether the circuit breaker has tripped; a tripped
// breaker means the pass should abort rather than degrade.
func (g *GraphStore) Unavailable() bool {
	return g.breaker.State() != resilience.StateClosed
}

// UpsertNode creates or refines the node identified by id. On create all
// given properties and labels are set. On match, new labels are added and
// each property follows a fill-if-absent policy: an existing non-null value
// is never overwritten, except for the designated refreshable keys, which
// always take the latest value. The returned bool is true when the node was
// created.
func (g *GraphStore) UpsertNode(ctx context.Context, id string, labels []string, props map[string]any) (bool, error) {
	if id == "" {
		return false, errors.New("graph: node id is empty")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return false, err
	}

	var created bool
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		sess := g.opener.OpenSession(ctx)
		defer sess.Close(ctx)

		res, err := sess.ExecuteWrite(ctx, func(tx CypherRunner) (any, error) {
			existing, exists, err := nodeProps(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			set := make(map[string]any, len(props))
			for k, v := range props {
				if v == nil {
					continue // SET += null would delete; absence stays absent
				}
				if !exists || g.refreshable[k] {
					set[k] = v
					continue
				}
				if cur, ok := existing[k]; !ok || cur == nil {
					set[k] = v
				}
			}
			cypher := fmt.Sprintf(
				`MERGE (n:IfcEntity {globalId: $id}) SET n += $props%s`,
				labelFragment(labels),
			)
			if _, err := tx.Run(ctx, cypher, map[string]any{"id": id, "props": set}); err != nil {
				return nil, err
			}
			return !exists, nil
		})
		if err != nil {
			return err
		}
		created, _ = res.(bool)
		return nil
	})
	return created, err
}

// UpsertEdge asserts the (src, dst, type) relationship. The triple is
// unique: re-asserting an existing edge is a no-op, never a duplicate. If
// either endpoint node does not exist the edge is refused with a
// DanglingEndpointError rather than creating a placeholder node. The
// returned bool is true when the edge was created.
func (g *GraphStore) UpsertEdge(ctx context.Context, src, dst, relType string) (bool, error) {
	if src == "" || dst == "" {
		return false, errors.New("graph: edge endpoint id is empty")
	}
	rel := sanitizeRelType(relType)
	if err := g.limiter.Wait(ctx); err != nil {
		return false, err
	}

	var created bool
	var dangling error
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		sess := g.opener.OpenSession(ctx)
		defer sess.Close(ctx)

		res, err := sess.ExecuteWrite(ctx, func(tx CypherRunner) (any, error) {
			missing, err := missingEndpoint(ctx, tx, src, dst)
			if err != nil {
				return nil, err
			}
			if missing != "" {
				return nil, &DanglingEndpointError{Src: src, Dst: dst, Type: rel, Missing: missing}
			}

			check := fmt.Sprintf(
				`MATCH (a:IfcEntity {globalId: $src})-[r:%s]->(b:IfcEntity {globalId: $dst}) RETURN count(r) AS c`,
				rel,
			)
			cur, err := tx.Run(ctx, check, map[string]any{"src": src, "dst": dst})
			if err != nil {
				return nil, err
			}
			if cur.Next(ctx) {
				if c, ok := recordInt(cur.Record(), "c"); ok && c > 0 {
					return false, nil
				}
			}

			merge := fmt.Sprintf(
				`MATCH (a:IfcEntity {globalId: $src}), (b:IfcEntity {globalId: $dst}) MERGE (a)-[:%s]->(b)`,
				rel,
			)
			if _, err := tx.Run(ctx, merge, map[string]any{"src": src, "dst": dst}); err != nil {
				return nil, err
			}
			return true, nil
		})
		var de *DanglingEndpointError
		if errors.As(err, &de) {
			// A skipped edge is a data-quality signal, not a store failure;
			// it must not trip the breaker.
			dangling = err
			return nil
		}
		if err != nil {
			return err
		}
		created, _ = res.(bool)
		return nil
	})
	if err != nil {
		return false, err
	}
	if dangling != nil {
		return false, dangling
	}
	return created, nil
}

// GetProperty reads a single property of a node. ok is false when the node
// does not exist or the property is unset.
func (g *GraphStore) GetProperty(ctx context.Context, id, key string) (any, bool, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	res, err := sess.Run(ctx, `MATCH (n:IfcEntity {globalId: $id}) RETURN n[$key] AS v`,
		map[string]any{"id": id, "key": key})
	if err != nil {
		return nil, false, err
	}
	if !res.Next(ctx) {
		return nil, false, nil
	}
	v, _ := res.Record().Get("v")
	return v, v != nil, nil
}

// nodeProps reads the current property map of a node, reporting whether the
// node exists at all.
func nodeProps(ctx context.Context, tx CypherRunner, id string) (map[string]any, bool, error) {
	res, err := tx.Run(ctx, `OPTIONAL MATCH (n:IfcEntity {globalId: $id}) RETURN properties(n) AS props`,
		map[string]any{"id": id})
	if err != nil {
		return nil, false, err
	}
	if !res.Next(ctx) {
		return nil, false, nil
	}
	v, _ := res.Record().Get("props")
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false, nil
	}
	return m, true, nil
}

// missingEndpoint returns the first endpoint id absent from the graph, or
// "" when both exist.
func missingEndpoint(ctx context.Context, tx CypherRunner, src, dst string) (string, error) {
	res, err := tx.Run(ctx,
		`OPTIONAL MATCH (a:IfcEntity {globalId: $src})
		 OPTIONAL MATCH (b:IfcEntity {globalId: $dst})
		 RETURN a IS NOT NULL AS hasSrc, b IS NOT NULL AS hasDst`,
		map[string]any{"src": src, "dst": dst})
	if err != nil {
		return "", err
	}
	if !res.Next(ctx) {
		return src, nil
	}
	rec := res.Record()
	if has, _ := recordBool(rec, "hasSrc"); !has {
		return src, nil
	}
	if has, _ := recordBool(rec, "hasDst"); !has {
		return dst, nil
	}
	return "", nil
}

// labelFragment renders the extra-label SET clause for sanitized,
// deduplicated labels. IfcEntity is implicit on every node.
func labelFragment(labels []string) string {
	var b strings.Builder
	seen := map[string]bool{"IfcEntity": true}
	for _, l := range labels {
		s := sanitizeLabel(l)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		b.WriteString(":")
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return ""
	}
	return " SET n" + b.String()
}

func recordBool(rec *neo4j.Record, key string) (bool, bool) {
	v, ok := rec.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func recordInt(rec *neo4j.Record, key string) (int64, bool) {
	v, ok := rec.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
