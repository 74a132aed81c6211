// Command ingest loads building model JSON files, resolves element
// positions and zone assignments, and merges the result into Neo4j.
// With -nats set it instead consumes resolution requests from the bus.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jma1999/RIG/engine/graph"
	"github.com/jma1999/RIG/engine/ingest"
	"github.com/jma1999/RIG/engine/record"
	"github.com/jma1999/RIG/pkg/fn"
	"github.com/jma1999/RIG/pkg/metrics"
)

var met = metrics.New()

var (
	mFilesProcessed = met.Counter("rig_ingest_files_processed_total", "Model files processed")
	mPassErrors     = met.Counter("rig_ingest_pass_errors_total", "Failed resolution passes")
	mNodesCreated   = met.Counter("rig_ingest_nodes_created_total", "Graph nodes created")
	mNodesRefined   = met.Counter("rig_ingest_nodes_refined_total", "Graph nodes refined in place")
	mEdgesCreated   = met.Counter("rig_ingest_edges_created_total", "Graph relationships created")
	mDanglingEdges  = met.Counter("rig_ingest_dangling_edges_total", "Edges skipped for missing endpoints")
	mUnassigned     = met.Counter("rig_ingest_unassigned_total", "Elements left without a zone")
	mPassDur        = met.Histogram("rig_ingest_pass_duration_seconds", "Per-file pass time", nil)
)

func main() {
	var (
		neo4jURL    = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", "", "Neo4j password")
		neo4jDB     = flag.String("neo4j-db", "", "Neo4j database name")
		configPath  = flag.String("config", "", "YAML config file")
		source      = flag.String("source", "", "source tag for upserted nodes (overrides config)")
		tolXY       = flag.Float64("tol-xy", 0, "lateral containment tolerance in model units (overrides config)")
		tolZ        = flag.Float64("tol-z", 0, "vertical containment tolerance in model units (overrides config)")
		workers     = flag.Int("workers", 0, "concurrent upsert workers (overrides config)")
		writeRate   = flag.Float64("write-rate", 0, "max store writes per second, 0 for unlimited")
		natsURL     = flag.String("nats", "", "NATS URL; when set, consume requests instead of reading files")
		metricsPort = flag.Int("metrics-port", 9091, "Prometheus metrics port")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	met.ServeAsync(*metricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := ingest.Config{}
	if *configPath != "" {
		loaded, err := ingest.LoadConfig(*configPath)
		if err != nil {
			log.Error("config load failed", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *tolXY != 0 {
		cfg.TolXY = *tolXY
	}
	if *tolZ != 0 {
		cfg.TolZ = *tolZ
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	cfg.ApplyDefaults()

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	opts := []graph.Option{graph.WithLogger(log)}
	if *neo4jDB != "" {
		opts = append(opts, graph.WithDatabase(*neo4jDB))
	}
	if *writeRate > 0 {
		opts = append(opts, graph.WithWriteRate(*writeRate, 1))
	}
	if len(cfg.Refreshable) > 0 {
		opts = append(opts, graph.WithRefreshable(cfg.Refreshable))
	}
	store := graph.New(driver, opts...)

	// Transient startup failures are common when the database is still
	// coming up, so verify with backoff.
	verified := fn.Retry(ctx, fn.DefaultRetry, func(ctx context.Context) fn.Result[struct{}] {
		return fn.FromPair(struct{}{}, store.Verify(ctx))
	})
	if verified.IsErr() {
		_, err := verified.Unwrap()
		log.Error("neo4j verify failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Neo4j", "url", *neo4jURL)

	deps := ingest.Deps{Store: store, Logger: log}

	if *natsURL != "" {
		runConsumer(ctx, log, *natsURL, deps, cfg)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		log.Error("no model files given")
		os.Exit(1)
	}
	failed := false
	for _, path := range files {
		if err := processFile(ctx, deps, cfg, path); err != nil {
			mPassErrors.Inc()
			log.Error("pass failed", "file", path, "error", err)
			failed = true
			continue
		}
		mFilesProcessed.Inc()
	}
	if failed {
		os.Exit(1)
	}
}

func processFile(ctx context.Context, deps ingest.Deps, cfg ingest.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	table, err := record.ParseTable(data)
	if err != nil {
		return err
	}
	if cfg.Source == "model" {
		cfg.Source = filepath.Base(path)
	}

	start := time.Now()
	report, err := ingest.Run(ctx, deps, table, cfg)
	mPassDur.Since(start)
	if err != nil {
		return err
	}

	mNodesCreated.Add(int64(report.NodesCreated))
	mNodesRefined.Add(int64(report.NodesRefined))
	mEdgesCreated.Add(int64(report.EdgesCreated))
	mDanglingEdges.Add(int64(report.DanglingEdges))
	mUnassigned.Add(int64(report.Unassigned))
	return nil
}

func runConsumer(ctx context.Context, log *slog.Logger, url string, deps ingest.Deps, cfg ingest.Config) {
	nc, err := nats.Connect(url, nats.Name("rig-ingest"))
	if err != nil {
		log.Error("nats connect failed", "error", err)
		os.Exit(1)
	}
	defer nc.Drain()

	sub, err := ingest.StartConsumer(nc, deps, cfg)
	if err != nil {
		log.Error("consumer start failed", "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	log.Info("consuming", "subject", ingest.IngestSubject)
	<-ctx.Done()
	log.Info("shutting down")
}
