// Command graphcheck verifies connectivity to Neo4j and prints node,
// relationship, and zone-assignment counts for a quick visual sanity check.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jma1999/RIG/engine/graph"
)

func main() {
	var (
		neo4jURL  = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass = flag.String("neo4j-pass", "", "Neo4j password")
		neo4jDB   = flag.String("neo4j-db", "", "Neo4j database name")
	)
	flag.Parse()

	log := slog.Default()
	ctx := context.Background()

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	var opts []graph.Option
	if *neo4jDB != "" {
		opts = append(opts, graph.WithDatabase(*neo4jDB))
	}
	store := graph.New(driver, opts...)

	if err := store.Verify(ctx); err != nil {
		log.Error("neo4j verify failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("connected:", *neo4jURL)

	nodes, err := store.NodeCounts(ctx)
	if err != nil {
		log.Error("node counts failed", "error", err)
		os.Exit(1)
	}
	printCounts("nodes by label", nodes)

	rels, err := store.RelationshipCounts(ctx)
	if err != nil {
		log.Error("relationship counts failed", "error", err)
		os.Exit(1)
	}
	printCounts("relationships by type", rels)

	zones, err := store.ZoneElementCounts(ctx)
	if err != nil {
		log.Error("zone counts failed", "error", err)
		os.Exit(1)
	}
	printCounts("elements per zone", zones)
}

func printCounts(title string, counts map[string]int64) {
	fmt.Printf("\n%s:\n", title)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-30s %d\n", k, counts[k])
	}
}
