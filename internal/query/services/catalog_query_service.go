package services

import (
	"context"
	"fmt"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	apperrors "github.com/codexmed/t2a-assistant/pkg/errors"
)

// AssociationDetail is one declared association joined to its target entry.
type AssociationDetail struct {
	AssociatedCode  string                   `json:"associated_code"`
	AssociationType entities.AssociationType `json:"association_type"`
	Activity        string                   `json:"activity"`
	Label           string                   `json:"label,omitempty"`
	ICRPublic       *float64                 `json:"icr_public,omitempty"`
	Expired         bool                     `json:"expired"`
}

// CatalogQueryService serves direct code lookups against the active
// snapshot.
type CatalogQueryService struct {
	store *catalog.Store
}

// NewCatalogQueryService creates a new catalog query service.
func NewCatalogQueryService(store *catalog.Store) *CatalogQueryService {
	return &CatalogQueryService{store: store}
}

// GetCode returns the catalog entry for one code.
func (s *CatalogQueryService) GetCode(ctx context.Context, code string) (*entities.ProcedureCode, error) {
	code = entities.CanonicalCode(code)
	if !entities.ValidCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%q is not a valid CCAM code", code))
	}
	p, ok := s.store.Current().Get(code)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("code %s not found in the CCAM catalog", code))
	}
	return p, nil
}

// ListAssociations returns the declared associations of one code, each
// joined to its target entry when present.
func (s *CatalogQueryService) ListAssociations(ctx context.Context, code string) ([]AssociationDetail, error) {
	code = entities.CanonicalCode(code)
	if !entities.ValidCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%q is not a valid CCAM code", code))
	}
	snap := s.store.Current()
	if _, ok := snap.Get(code); !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("code %s not found in the CCAM catalog", code))
	}

	details := []AssociationDetail{}
	for _, edge := range snap.EdgesFrom(code) {
		d := AssociationDetail{
			AssociatedCode:  edge.AssociatedCode,
			AssociationType: edge.AssociationType,
			Activity:        edge.Activity,
		}
		if target, ok := snap.Get(edge.AssociatedCode); ok {
			d.Label = target.Label
			d.ICRPublic = target.ICRPublic
			d.Expired = target.Expired()
		}
		details = append(details, d)
	}
	return details, nil
}
