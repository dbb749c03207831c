package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/codexmed/t2a-assistant/internal/adapters/database"
	"github.com/codexmed/t2a-assistant/internal/application/services"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/postgres"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
	"github.com/codexmed/t2a-assistant/pkg/config"
)

func main() {
	candidatesPath := flag.String("candidates", "", "path to the raw candidates JSON (overrides CLASSIFIER_CANDIDATES_PATH)")
	rebuildEdges := flag.Bool("rebuild-edges", false, "re-derive the authoritative edges from the catalog text before classifying")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *candidatesPath == "" {
		*candidatesPath = cfg.Classifier.CandidatesPath
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	catalogAdapter := database.NewCatalogAdapter(pgClient)

	if *rebuildEdges {
		if err := deriveEdges(ctx, catalogAdapter); err != nil {
			log.Fatalf("Failed to rebuild authoritative edges: %v", err)
		}
		log.Println("Authoritative edges rebuilt")
	}

	snap, err := catalog.Load(ctx, catalogAdapter)
	if err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}
	store := catalog.NewStore(snap)
	log.Printf("Catalog snapshot loaded: %d codes", snap.Len())

	candidates, err := services.LoadCandidates(*candidatesPath)
	if err != nil {
		log.Fatalf("Failed to load candidates: %v", err)
	}
	log.Printf("Loaded candidates for %d source codes", len(candidates))

	classifier := services.NewClassifierService(catalogAdapter)
	stats, err := classifier.Run(ctx, store, catalogAdapter, candidates)
	if err != nil {
		log.Fatalf("Classification failed: %v", err)
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	os.Stdout.Write(append(out, '\n'))
}

// deriveEdges re-parses the declared association columns of every catalog
// entry and replaces the edge table with the result.
func deriveEdges(ctx context.Context, adapter *database.CatalogAdapter) error {
	codes, err := adapter.ListCodes(ctx)
	if err != nil {
		return err
	}
	var edges []entities.AssociationEdge
	for _, p := range codes {
		edges = append(edges, catalog.ParseDeclaredEdges(p)...)
	}
	log.Printf("Parsed %d authoritative edges from %d catalog entries", len(edges), len(codes))
	return adapter.ReplaceEdges(ctx, edges)
}
