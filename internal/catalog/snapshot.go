// Package catalog holds the immutable per-version snapshot of the CCAM
// catalog and its association graph. A snapshot is built wholesale, published
// through a Store swap, and then shared read-only by every query-time
// component.
package catalog

import (
	"fmt"
	"time"

	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/pkg/textnorm"
)

// Snapshot is a read-only view of one catalog version. All lookups are safe
// for concurrent use; nothing mutates a snapshot after Build returns it.
type Snapshot struct {
	codes    map[string]*entities.ProcedureCode
	order    []string
	chapters map[string]*entities.Chapter

	edgesBySource    map[string][]entities.AssociationEdge
	edgeTargets      map[string]map[string]struct{}
	observedBySource map[string][]entities.ObservedAssociation

	builtAt time.Time
}

// Get returns the catalog entry for code, if present.
func (s *Snapshot) Get(code string) (*entities.ProcedureCode, bool) {
	p, ok := s.codes[code]
	return p, ok
}

// Len returns the number of catalog entries.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Each calls fn for every catalog entry in catalog order. Iteration stops
// when fn returns false.
func (s *Snapshot) Each(fn func(p *entities.ProcedureCode) bool) {
	for _, code := range s.order {
		if !fn(s.codes[code]) {
			return
		}
	}
}

// Chapter returns the hierarchy node registered under num.
func (s *Snapshot) Chapter(num string) (*entities.Chapter, bool) {
	c, ok := s.chapters[num]
	return c, ok
}

// EdgesFrom returns the authoritative edges declared by code, in insertion
// order. The returned slice must not be modified.
func (s *Snapshot) EdgesFrom(code string) []entities.AssociationEdge {
	return s.edgesBySource[code]
}

// HasEdgeTo reports whether an authoritative edge code → target exists,
// regardless of activity.
func (s *Snapshot) HasEdgeTo(code, target string) bool {
	_, ok := s.edgeTargets[code][target]
	return ok
}

// ObservedFrom returns the classified observed associations for code, in rank
// order. The returned slice must not be modified.
func (s *Snapshot) ObservedFrom(code string) []entities.ObservedAssociation {
	return s.observedBySource[code]
}

// AssociationCount sums authoritative and observed association rows for code.
// The two sources are counted independently, not deduplicated.
func (s *Snapshot) AssociationCount(code string) int {
	return len(s.edgesBySource[code]) + len(s.observedBySource[code])
}

// BuiltAt returns when the snapshot was assembled.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Builder accumulates one catalog version before publication. It owns the
// dedup and consistency rules; a finished Builder is turned into an immutable
// Snapshot by Build.
type Builder struct {
	snap *Snapshot
}

// NewBuilder creates an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{snap: &Snapshot{
		codes:            make(map[string]*entities.ProcedureCode),
		chapters:         make(map[string]*entities.Chapter),
		edgesBySource:    make(map[string][]entities.AssociationEdge),
		edgeTargets:      make(map[string]map[string]struct{}),
		observedBySource: make(map[string][]entities.ObservedAssociation),
	}}
}

// AddCode registers a catalog entry. LabelNormalized is always recomputed
// from Label so the stored value cannot drift from the normalizer. A
// duplicate code replaces the previous entry but keeps its catalog-order
// position.
func (b *Builder) AddCode(p *entities.ProcedureCode) error {
	if !entities.ValidCode(p.Code) {
		return fmt.Errorf("invalid procedure code %q", p.Code)
	}
	p.LabelNormalized = textnorm.Normalize(p.Label)
	if _, exists := b.snap.codes[p.Code]; !exists {
		b.snap.order = append(b.snap.order, p.Code)
	}
	b.snap.codes[p.Code] = p
	return nil
}

// AddChapter registers a hierarchy node. The first registration of a num
// wins; later duplicates are ignored. A non-root node must reference an
// already-registered parent of the immediately shallower level.
func (b *Builder) AddChapter(c *entities.Chapter) error {
	if _, exists := b.snap.chapters[c.Num]; exists {
		return nil
	}
	if c.Level < 0 || c.Level > 3 {
		return fmt.Errorf("chapter %s: level %d out of range", c.Num, c.Level)
	}
	if c.Level == 0 {
		if c.ParentNum != nil {
			return fmt.Errorf("chapter %s: root node cannot have a parent", c.Num)
		}
	} else {
		if c.ParentNum == nil {
			return fmt.Errorf("chapter %s: level %d node requires a parent", c.Num, c.Level)
		}
		parent, ok := b.snap.chapters[*c.ParentNum]
		if !ok {
			return fmt.Errorf("chapter %s: parent %s not registered", c.Num, *c.ParentNum)
		}
		if parent.Level != c.Level-1 {
			return fmt.Errorf("chapter %s: parent %s is level %d, want %d", c.Num, parent.Num, parent.Level, c.Level-1)
		}
	}
	b.snap.chapters[c.Num] = c
	return nil
}

// AddEdge registers an authoritative association edge. Inserts are
// idempotent: a second edge for the same (code, associated_code, activity)
// triple is dropped.
func (b *Builder) AddEdge(e entities.AssociationEdge) {
	if e.Code == e.AssociatedCode {
		return
	}
	targets := b.snap.edgeTargets[e.Code]
	if targets == nil {
		targets = make(map[string]struct{})
		b.snap.edgeTargets[e.Code] = targets
	}
	for _, existing := range b.snap.edgesBySource[e.Code] {
		if existing.AssociatedCode == e.AssociatedCode && existing.Activity == e.Activity {
			return
		}
	}
	b.snap.edgesBySource[e.Code] = append(b.snap.edgesBySource[e.Code], e)
	targets[e.AssociatedCode] = struct{}{}
}

// AddObserved registers a classified observed association. At most one row
// is kept per (code, associated_code) pair; the first insert wins.
func (b *Builder) AddObserved(o entities.ObservedAssociation) {
	for _, existing := range b.snap.observedBySource[o.Code] {
		if existing.AssociatedCode == o.AssociatedCode {
			return
		}
	}
	b.snap.observedBySource[o.Code] = append(b.snap.observedBySource[o.Code], o)
}

// Build finalizes the snapshot. The builder must not be used afterwards.
func (b *Builder) Build() *Snapshot {
	snap := b.snap
	snap.builtAt = time.Now()
	b.snap = nil
	return snap
}
