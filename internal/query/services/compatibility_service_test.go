package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
)

func issueTypes(issues []entities.Issue) []entities.IssueType {
	types := make([]entities.IssueType, len(issues))
	for i, issue := range issues {
		types[i] = issue.Type
	}
	return types
}

func TestCheck_AllClearYieldsSingleOK(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"HBQK389", "HBQK040"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeOK, issues[0].Type)
}

func TestCheck_SingleUnknownCode(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"XXXX999"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeUnknownCode, issues[0].Type)
	assert.Equal(t, "XXXX999", issues[0].Code)
}

func TestCheck_InvalidIdentifier(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"not-a-code"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeInvalidCode, issues[0].Type)
}

func TestCheck_ExpiredCodeIsInformational(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"HBQK061", "HBQK389"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeExpiredCode, issues[0].Type)
	assert.Equal(t, "HBQK061", issues[0].Code)
}

func TestCheck_DeclaredAssociationNamesBothCodes(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"HBGD035", "HBGD027"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeHasAssociation, issues[0].Type)
	assert.Equal(t, []string{"HBGD035", "HBGD027"}, issues[0].Codes)
	assert.Equal(t, entities.AssociationTypeGesture, issues[0].AssociationType)
}

func TestCheck_ObservedAssociationsDoNotCount(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	// HBGD035 → HBQK040 exists only in the observed table.
	issues := svc.Check(context.Background(), []string{"HBGD035", "HBQK040"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeOK, issues[0].Type)
}

func TestCheck_CanonicalizesInput(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{" hbgd035 ", "hbgd027"})
	require.Len(t, issues, 1)
	assert.Equal(t, entities.IssueTypeHasAssociation, issues[0].Type)
}

func TestCheck_DuplicatedInputNotDeduplicated(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"HBQK061", "HBQK061"})
	// One expired issue per occurrence; the self-pair yields nothing.
	assert.Equal(t,
		[]entities.IssueType{entities.IssueTypeExpiredCode, entities.IssueTypeExpiredCode},
		issueTypes(issues))
}

func TestCheck_MixedFindings(t *testing.T) {
	svc := queryservices.NewCompatibilityService(newCatalogStore(t))

	issues := svc.Check(context.Background(), []string{"HBGD035", "ZZLP025", "XXXX999"})
	types := issueTypes(issues)
	assert.Contains(t, types, entities.IssueTypeUnknownCode)
	assert.Contains(t, types, entities.IssueTypeHasAssociation)
	assert.NotContains(t, types, entities.IssueTypeOK)
}
