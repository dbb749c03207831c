package catalog

import (
	"regexp"

	"github.com/codexmed/t2a-assistant/internal/domain/entities"
)

// embeddedCode finds CCAM codes embedded in the loosely structured
// association text columns of the source catalog.
var embeddedCode = regexp.MustCompile(`[A-Z]{4}[0-9]{3}`)

// gestureColumn maps one raw gesture column to its activity tag.
type gestureColumn struct {
	activity string
	text     func(p *entities.ProcedureCode) string
}

var gestureColumns = []gestureColumn{
	{"text", func(p *entities.ProcedureCode) string { return p.GesturesText }},
	{"act123", func(p *entities.ProcedureCode) string { return p.GesturesAct123 }},
	{"act4", func(p *entities.ProcedureCode) string { return p.GesturesAct4 }},
	{"act5", func(p *entities.ProcedureCode) string { return p.GesturesAct5 }},
}

// ParseDeclaredEdges extracts the typed authoritative edges declared by a
// catalog entry's raw gesture and anesthesia columns. Self-references are
// discarded; duplicate (target, activity) pairs within one entry are emitted
// once. Parsing is deliberately separate from the classifier's rule engine
// so the two stay independently testable.
func ParseDeclaredEdges(p *entities.ProcedureCode) []entities.AssociationEdge {
	var edges []entities.AssociationEdge
	seen := make(map[string]struct{})

	add := func(target, activity string, assocType entities.AssociationType) {
		if target == p.Code {
			return
		}
		key := target + "|" + activity
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, entities.AssociationEdge{
			Code:            p.Code,
			AssociatedCode:  target,
			AssociationType: assocType,
			Activity:        activity,
		})
	}

	for _, col := range gestureColumns {
		for _, target := range embeddedCode.FindAllString(col.text(p), -1) {
			add(target, col.activity, entities.AssociationTypeGesture)
		}
	}
	for _, target := range embeddedCode.FindAllString(p.AnesthesiaText, -1) {
		add(target, "anesthesia", entities.AssociationTypeAnesthesia)
	}

	return edges
}
