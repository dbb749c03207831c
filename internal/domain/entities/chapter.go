package entities

// Chapter is a node of the 4-level CCAM subdivision hierarchy
// (chapter, sub-chapter, paragraph, sub-paragraph).
type Chapter struct {
	Num       string  `json:"num" db:"num"`
	Title     string  `json:"title" db:"title"`
	Level     int     `json:"level" db:"level"`
	ParentNum *string `json:"parent_num,omitempty" db:"parent_num"`
}
