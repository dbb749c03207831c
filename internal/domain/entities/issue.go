package entities

import "fmt"

// IssueType classifies a compatibility-check finding.
type IssueType string

const (
	IssueTypeOK             IssueType = "ok"
	IssueTypeUnknownCode    IssueType = "unknown_code"
	IssueTypeInvalidCode    IssueType = "invalid_code"
	IssueTypeExpiredCode    IssueType = "expired_code"
	IssueTypeHasAssociation IssueType = "has_association"
)

// Issue is one finding of the compatibility checker. Expired and
// has_association issues are informational; they never block a result.
type Issue struct {
	Type            IssueType       `json:"type"`
	Code            string          `json:"code,omitempty"`
	Codes           []string        `json:"codes,omitempty"`
	AssociationType AssociationType `json:"association_type,omitempty"`
	Activity        string          `json:"activity,omitempty"`
	Message         string          `json:"message"`
}

// NewOKIssue builds the single issue returned when no finding was produced.
func NewOKIssue() Issue {
	return Issue{
		Type:    IssueTypeOK,
		Message: "no incompatibility detected between the selected codes",
	}
}

// NewUnknownCodeIssue flags a code absent from the catalog.
func NewUnknownCodeIssue(code string) Issue {
	return Issue{
		Type:    IssueTypeUnknownCode,
		Code:    code,
		Message: fmt.Sprintf("code %s not found in the CCAM catalog", code),
	}
}

// NewInvalidCodeIssue flags an identifier that does not parse as a CCAM code.
func NewInvalidCodeIssue(code string) Issue {
	return Issue{
		Type:    IssueTypeInvalidCode,
		Code:    code,
		Message: fmt.Sprintf("%q is not a valid 7-character CCAM code", code),
	}
}

// NewExpiredCodeIssue flags a code past its validity end date.
func NewExpiredCodeIssue(p *ProcedureCode) Issue {
	msg := fmt.Sprintf("code %s is expired", p.Code)
	if p.DateEnd != nil {
		msg = fmt.Sprintf("code %s is expired (end of validity: %s)", p.Code, p.DateEnd.Format("2006-01-02"))
	}
	return Issue{
		Type:    IssueTypeExpiredCode,
		Code:    p.Code,
		Message: msg,
	}
}

// NewAssociationIssue reports a declared association between two input codes.
func NewAssociationIssue(edge AssociationEdge) Issue {
	return Issue{
		Type:            IssueTypeHasAssociation,
		Codes:           []string{edge.Code, edge.AssociatedCode},
		AssociationType: edge.AssociationType,
		Activity:        edge.Activity,
		Message: fmt.Sprintf("%s → %s: declared association (%s, activity %s)",
			edge.Code, edge.AssociatedCode, edge.AssociationType, edge.Activity),
	}
}
