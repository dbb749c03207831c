package entities

// PlanItem is one authoritative complement inside a billing plan, joined to
// its target catalog entry.
type PlanItem struct {
	Code              string   `json:"code"`
	Label             string   `json:"label,omitempty"`
	ICRPublic         *float64 `json:"icr_public,omitempty"`
	ICRPrivate        *float64 `json:"icr_private,omitempty"`
	TarifBase         *float64 `json:"tarif_base,omitempty"`
	Activity          string   `json:"activity,omitempty"`
	Classant          string   `json:"classant,omitempty"`
	CodingInstruction string   `json:"coding_instruction,omitempty"`
	ParagraphTitle    string   `json:"paragraph_title,omitempty"`
	Expired           bool     `json:"expired"`
}

// FrequentItem is one observed complement inside a billing plan, ordered by
// classifier rank.
type FrequentItem struct {
	Code       string         `json:"code"`
	Label      string         `json:"label,omitempty"`
	ICRPublic  *float64       `json:"icr_public,omitempty"`
	TarifBase  *float64       `json:"tarif_base,omitempty"`
	Confidence ConfidenceTier `json:"confidence"`
	Rank       int            `json:"rank"`
}

// BillingPlan is the assembled set of complementary codes for one primary
// code. A target present in the authoritative groups never reappears in the
// frequent group.
type BillingPlan struct {
	MainCode              *ProcedureCode `json:"main_code"`
	ComplementaryGestures []PlanItem     `json:"complementary_gestures"`
	AnesthesiaCodes       []PlanItem     `json:"anesthesia_codes"`
	FrequentAssociations  []FrequentItem `json:"frequent_associations"`
}
