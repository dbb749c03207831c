package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/codexmed/t2a-assistant/internal/domain/repositories"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
)

// Load reads one complete catalog version from repo and assembles a fresh
// snapshot. Inconsistent rows (malformed codes, orphan chapters) are logged
// and dropped here so they can never surface at query time.
func Load(ctx context.Context, repo repositories.CatalogRepository) (*Snapshot, error) {
	logger := observability.LoggerFromContext(ctx)
	builder := NewBuilder()

	codes, err := repo.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog codes: %w", err)
	}
	for _, p := range codes {
		if err := builder.AddCode(p); err != nil {
			logger.Warn().Str("code", p.Code).Err(err).Msg("dropping inconsistent catalog entry")
		}
	}

	chapters, err := repo.ListChapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	// Parents must exist before their children.
	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Level < chapters[j].Level })
	for _, c := range chapters {
		if err := builder.AddChapter(c); err != nil {
			logger.Warn().Str("chapter", c.Num).Err(err).Msg("dropping inconsistent chapter")
		}
	}

	edges, err := repo.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list association edges: %w", err)
	}
	for _, e := range edges {
		builder.AddEdge(e)
	}

	observed, err := repo.ListObserved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list observed associations: %w", err)
	}
	for _, o := range observed {
		builder.AddObserved(o)
	}

	snap := builder.Build()
	logger.Info().
		Int("codes", snap.Len()).
		Int("chapters", len(snap.chapters)).
		Msg("catalog snapshot assembled")
	return snap, nil
}
