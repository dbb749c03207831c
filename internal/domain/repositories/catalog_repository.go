package repositories

import (
	"context"

	"github.com/codexmed/t2a-assistant/internal/domain/entities"
)

// CatalogRepository is the read contract over one catalog version. Listings
// are consumed wholesale by the snapshot loader; nothing reads these tables
// row-by-row at query time.
type CatalogRepository interface {
	// ListCodes returns every catalog entry in catalog order.
	ListCodes(ctx context.Context) ([]*entities.ProcedureCode, error)

	// ListChapters returns the full subdivision hierarchy.
	ListChapters(ctx context.Context) ([]*entities.Chapter, error)

	// ListEdges returns every authoritative association edge.
	ListEdges(ctx context.Context) ([]entities.AssociationEdge, error)

	// ListObserved returns every classified observed association.
	ListObserved(ctx context.Context) ([]entities.ObservedAssociation, error)
}

// AssociationWriteRepository is the write contract of the batch graph build.
// Both operations replace the whole table inside one transaction; the edge
// set is never patched incrementally.
type AssociationWriteRepository interface {
	// ReplaceEdges replaces the authoritative edge table.
	ReplaceEdges(ctx context.Context, edges []entities.AssociationEdge) error

	// ReplaceObserved replaces the observed association table.
	ReplaceObserved(ctx context.Context, observed []entities.ObservedAssociation) error
}
