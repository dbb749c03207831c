package entities

// SearchHit is a catalog entry returned by the search resolver, decorated
// with the number of known associations (authoritative + observed, summed).
type SearchHit struct {
	*ProcedureCode
	AssociationCount int `json:"association_count"`
}
