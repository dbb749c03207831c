package entities

import (
	"regexp"
	"strings"
	"time"
)

// codePattern matches a CCAM code: 4 uppercase letters followed by 3 digits.
var codePattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{3}$`)

// ValidCode reports whether value parses as a 7-character CCAM code.
func ValidCode(value string) bool {
	return codePattern.MatchString(value)
}

// CanonicalCode upper-cases and trims a user-supplied code.
func CanonicalCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ProcedureCode represents one entry of the CCAM catalog.
// Entries are built wholesale per catalog version and never mutated afterwards.
type ProcedureCode struct {
	Code              string     `json:"code" db:"code"`
	Label             string     `json:"label" db:"label"`
	LabelNormalized   string     `json:"label_normalized" db:"label_normalized"`
	CodingInstruction string     `json:"coding_instruction,omitempty" db:"coding_instruction"`
	Activity          string     `json:"activity,omitempty" db:"activity"`
	Phase             string     `json:"phase,omitempty" db:"phase"`
	Classant          string     `json:"classant,omitempty" db:"classant"`
	ICRPublic         *float64   `json:"icr_public,omitempty" db:"icr_public"`
	ICRPrivate        *float64   `json:"icr_private,omitempty" db:"icr_private"`
	TarifBase         *float64   `json:"tarif_base,omitempty" db:"tarif_base"`
	Modifiers         string     `json:"modifiers,omitempty" db:"modifiers"`
	ChapterNum        string     `json:"chapter_num,omitempty" db:"chapter_num"`
	ChapterTitle      string     `json:"chapter_title,omitempty" db:"chapter_title"`
	SubchapterNum     string     `json:"subchapter_num,omitempty" db:"subchapter_num"`
	SubchapterTitle   string     `json:"subchapter_title,omitempty" db:"subchapter_title"`
	ParagraphNum      string     `json:"paragraph_num,omitempty" db:"paragraph_num"`
	ParagraphTitle    string     `json:"paragraph_title,omitempty" db:"paragraph_title"`
	SubparagraphNum   string     `json:"subparagraph_num,omitempty" db:"subparagraph_num"`
	SubparagraphTitle string     `json:"subparagraph_title,omitempty" db:"subparagraph_title"`
	DateStart         *time.Time `json:"date_start,omitempty" db:"date_start"`
	DateEnd           *time.Time `json:"date_end,omitempty" db:"date_end"`

	// Raw association columns from the source catalog. Consumed only while
	// the association graph is built, never at query time.
	GesturesText   string `json:"-" db:"gestures_text"`
	GesturesAct123 string `json:"-" db:"gestures_act123"`
	GesturesAct4   string `json:"-" db:"gestures_act4"`
	GesturesAct5   string `json:"-" db:"gestures_act5"`
	AnesthesiaText string `json:"-" db:"anesthesia"`
}

// Expired reports whether the code is past its validity end date.
func (p *ProcedureCode) Expired() bool {
	return p.DateEnd != nil
}

// ICRPublicOrZero returns the public cost weight, treating missing values as 0
// for ranking purposes.
func (p *ProcedureCode) ICRPublicOrZero() float64 {
	if p.ICRPublic == nil {
		return 0
	}
	return *p.ICRPublic
}
