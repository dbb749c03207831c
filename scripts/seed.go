// Dev seed: loads a miniature dental-surgery slice of the catalog so the API
// and REPL have something to serve locally. Run scripts/schema.sql first.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/codexmed/t2a-assistant/internal/adapters/database"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/postgres"
	"github.com/codexmed/t2a-assistant/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := goqu.New("postgres", pgClient.DB())

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				frequent_associations,
				associations,
				ccam_codes,
				chapters
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Chapters
	chapters := []goqu.Record{
		{"num": "11", "title": "Appareil digestif", "level": 0, "parent_num": nil},
		{"num": "11.01", "title": "Dents et parodonte", "level": 1, "parent_num": "11"},
		{"num": "18", "title": "Anesthésies", "level": 0, "parent_num": nil},
	}
	for _, r := range chapters {
		query, args, err := db.Insert("chapters").Rows(r).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build chapter insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to insert chapter %v: %v", r["num"], err)
		}
	}

	// 2. Codes. Gesture/anesthesia columns carry embedded code references the
	// classify command parses into typed edges.
	expired := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	codes := []goqu.Record{
		{
			"code": "HBQK040", "label": "Radiographie panoramique dentomaxillaire",
			"chapter_num": "11", "chapter_title": "Appareil digestif",
			"subchapter_num": "11.01", "subchapter_title": "Dents et parodonte",
			"tarif_base": 21.28,
		},
		{
			"code": "HBGD027", "label": "Avulsion d'une dent sur arcade",
			"chapter_num": "11", "chapter_title": "Appareil digestif",
			"icr_public": 20.0, "tarif_base": 33.44,
			"anesthesia": "anesthésie locale ou, si besoin, générale : ZZLP025",
		},
		{
			"code": "HBGD035", "label": "Avulsion de 2 dents sur arcade",
			"chapter_num": "11", "chapter_title": "Appareil digestif",
			"icr_public": 45.0, "tarif_base": 41.8,
			"gestures_text": "le cas échéant avec HBGD027",
			"anesthesia":    "ZZLP025",
		},
		{
			"code": "ZZLP025", "label": "Anesthésie générale",
			"chapter_num": "18", "chapter_title": "Anesthésies",
			"icr_public": 10.0,
		},
		{
			"code": "HBQK061", "label": "Radiographie dentaire rétroalvéolaire",
			"chapter_num": "11", "chapter_title": "Appareil digestif",
			"date_end": expired,
		},
	}
	for _, r := range codes {
		query, args, err := db.Insert("ccam_codes").Rows(r).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build code insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to insert code %v: %v", r["code"], err)
		}
	}

	// 3. Derive the authoritative edges from what was just inserted.
	adapter := database.NewCatalogAdapter(pgClient)
	loaded, err := adapter.ListCodes(ctx)
	if err != nil {
		log.Fatalf("Failed to read back codes: %v", err)
	}
	var edges []entities.AssociationEdge
	for _, p := range loaded {
		edges = append(edges, catalog.ParseDeclaredEdges(p)...)
	}
	if err := adapter.ReplaceEdges(ctx, edges); err != nil {
		log.Fatalf("Failed to write edges: %v", err)
	}

	log.Printf("Seeding completed: %d codes, %d edges. Run cmd/classify to populate frequent associations.", len(loaded), len(edges))
}
