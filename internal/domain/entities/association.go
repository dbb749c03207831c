package entities

// AssociationType classifies an authoritative association edge.
type AssociationType string

const (
	AssociationTypeGesture    AssociationType = "complementary_gesture"
	AssociationTypeAnesthesia AssociationType = "complementary_anesthesia"
)

// AssociationEdge is a directed, catalog-declared relation between two codes.
// At most one edge exists per (code, associated_code, activity) triple.
type AssociationEdge struct {
	Code            string          `json:"code" db:"code"`
	AssociatedCode  string          `json:"associated_code" db:"associated_code"`
	AssociationType AssociationType `json:"association_type" db:"association_type"`
	Activity        string          `json:"activity" db:"activity"`
}

// ConfidenceTier classifies the trustworthiness of an observed association.
// Lower sort order means stronger signal.
type ConfidenceTier string

const (
	ConfidenceVerified     ConfidenceTier = "verified"
	ConfidenceSameChapter  ConfidenceTier = "same_chapter"
	ConfidenceCrossChapter ConfidenceTier = "cross_chapter"
)

// SortOrder returns the ordering position of the tier (verified first).
func (c ConfidenceTier) SortOrder() int {
	switch c {
	case ConfidenceVerified:
		return 0
	case ConfidenceSameChapter:
		return 1
	case ConfidenceCrossChapter:
		return 2
	}
	return 9
}

// ObservedAssociation is a directed relation sourced from external billing
// observations, validated and tiered by the classifier. At most one row exists
// per (code, associated_code) pair; Rank is 1-based and contiguous within the
// source code's group.
type ObservedAssociation struct {
	Code           string         `json:"code" db:"code"`
	AssociatedCode string         `json:"associated_code" db:"associated_code"`
	Label          string         `json:"label,omitempty" db:"label"`
	ICRPublic      *float64       `json:"icr_public,omitempty" db:"icr_public"`
	Confidence     ConfidenceTier `json:"confidence" db:"confidence"`
	Rank           int            `json:"rank" db:"rank"`
}
