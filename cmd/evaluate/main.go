package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/codexmed/t2a-assistant/internal/adapters/database"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/evaluation"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/postgres"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
	"github.com/codexmed/t2a-assistant/pkg/config"
)

func main() {
	goldenPath := flag.String("golden", "data/golden_queries.json", "path to the golden query set")
	enforce := flag.Bool("enforce", false, "exit non-zero when a guardrail is violated")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	ctx := context.Background()

	queries, err := evaluation.LoadGoldenQueries(*goldenPath)
	if err != nil {
		log.Fatalf("Failed to load golden queries: %v", err)
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatalf("Invalid golden query set: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	snap, err := catalog.Load(ctx, database.NewCatalogAdapter(pgClient))
	if err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}
	store := catalog.NewStore(snap)

	runner := evaluation.NewRunner(queryservices.NewSearchService(store, nil))
	summary := runner.Run(ctx, queries)

	fmt.Printf("Queries:        %d\n", summary.TotalQueries)
	fmt.Printf("With hits:      %d\n", summary.QueriesWithHits)
	fmt.Printf("Avg recall@10:  %.3f\n", summary.AvgRecallAt10)
	fmt.Printf("Avg MRR@10:     %.3f\n", summary.AvgMRRAt10)
	fmt.Printf("Avg latency:    %s\n", summary.AvgLatency)
	for difficulty, ds := range summary.ByDifficulty {
		fmt.Printf("  [%s] n=%d recall@10=%.3f mrr@10=%.3f\n",
			difficulty, ds.Count, ds.AvgRecallAt10, ds.AvgMRRAt10)
	}

	violations := evaluation.NewGuardrails(evaluation.DefaultGuardrailConfig()).Check(summary)
	for _, v := range violations {
		fmt.Printf("GUARDRAIL: %s\n", v)
	}
	if *enforce && len(violations) > 0 {
		os.Exit(1)
	}
}
