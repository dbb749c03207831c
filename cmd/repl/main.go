package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/codexmed/t2a-assistant/internal/adapters/database"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/postgres"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
	"github.com/codexmed/t2a-assistant/pkg/config"
)

const usage = `Commands:
  <free text>        search the catalog
  /code <CODE>       show one catalog entry
  /assoc <CODE>      list declared associations
  /plan <CODE>       assemble the billing plan
  /check <C1> <C2>…  check code compatibility
  /quit              exit`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))
	ctx := context.Background()

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

	searchService := queryservices.NewSearchService(store, nil)
	catalogService := queryservices.NewCatalogQueryService(store)
	compatService := queryservices.NewCompatibilityService(store)
	billingService := queryservices.NewBillingService(store, nil, nil)

	fmt.Printf("Catalog loaded: %d codes.\n%s\n", snap.Len(), usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch fields := strings.Fields(line); fields[0] {
		case "/quit", "/exit":
			return
		case "/help":
			fmt.Println(usage)
		case "/code":
			if len(fields) != 2 {
				fmt.Println("usage: /code <CODE>")
				continue
			}
			entry, err := catalogService.GetCode(ctx, fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("%s  %s\n", entry.Code, entry.Label)
			if entry.CodingInstruction != "" {
				fmt.Printf("  coding: %s\n", entry.CodingInstruction)
			}
			fmt.Printf("  chapter: %s %s\n", entry.ChapterNum, entry.ChapterTitle)
			if entry.TarifBase != nil {
				fmt.Printf("  tarif: %.2f\n", *entry.TarifBase)
			}
			if entry.Expired() {
				fmt.Printf("  EXPIRED (end of validity: %s)\n", entry.DateEnd.Format("2006-01-02"))
			}
		case "/assoc":
			if len(fields) != 2 {
				fmt.Println("usage: /assoc <CODE>")
				continue
			}
			assocs, err := catalogService.ListAssociations(ctx, fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			if len(assocs) == 0 {
				fmt.Println("no declared associations")
				continue
			}
			for _, a := range assocs {
				fmt.Printf("%s  [%s, activity %s]  %s\n", a.AssociatedCode, a.AssociationType, a.Activity, a.Label)
			}
		case "/plan":
			if len(fields) != 2 {
				fmt.Println("usage: /plan <CODE>")
				continue
			}
			plan, err := billingService.Assemble(ctx, fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("Main: %s  %s\n", plan.MainCode.Code, plan.MainCode.Label)
			fmt.Printf("Complementary gestures (%d):\n", len(plan.ComplementaryGestures))
			for _, item := range plan.ComplementaryGestures {
				fmt.Printf("  %s  %s\n", item.Code, item.Label)
			}
			fmt.Printf("Anesthesia (%d):\n", len(plan.AnesthesiaCodes))
			for _, item := range plan.AnesthesiaCodes {
				fmt.Printf("  %s  %s\n", item.Code, item.Label)
			}
			fmt.Printf("Frequent associations (%d):\n", len(plan.FrequentAssociations))
			for _, item := range plan.FrequentAssociations {
				fmt.Printf("  %d. %s  %s  [%s]\n", item.Rank, item.Code, item.Label, item.Confidence)
			}
		case "/check":
			if len(fields) < 3 {
				fmt.Println("usage: /check <CODE> <CODE>…")
				continue
			}
			for _, issue := range compatService.Check(ctx, fields[1:]) {
				fmt.Printf("[%s] %s\n", issue.Type, issue.Message)
			}
		default:
			hits := searchService.Search(ctx, queryservices.SearchParams{Query: line})
			if len(hits) == 0 {
				fmt.Println("no results")
				continue
			}
			for _, hit := range hits {
				marker := " "
				if hit.Expired() {
					marker = "†"
				}
				fmt.Printf("%s%s  %s  (%d associations)\n", marker, hit.Code, hit.Label, hit.AssociationCount)
			}
		}
	}
}
