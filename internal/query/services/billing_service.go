package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/entities"
	"github.com/codexmed/t2a-assistant/internal/domain/providers"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
	apperrors "github.com/codexmed/t2a-assistant/pkg/errors"
)

// planCacheTTLSeconds bounds how long an assembled plan may be served from
// cache. Plans only change on catalog rebuild, so a short TTL is plenty.
const planCacheTTLSeconds = 300

// BillingService assembles the ranked billing plan for one primary code.
// Assembly is a pure read over the active snapshot and safe to invoke
// concurrently for different codes.
type BillingService struct {
	store   *catalog.Store
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewBillingService creates a new billing service. cache may be nil, in
// which case every call assembles from the snapshot.
func NewBillingService(store *catalog.Store, cache providers.CacheProvider, metrics *observability.Metrics) *BillingService {
	return &BillingService{store: store, cache: cache, metrics: metrics}
}

// Assemble builds the billing plan for code. It fails with a validation
// error for identifiers that do not parse as CCAM codes, and with not-found
// for codes absent from the catalog.
func (s *BillingService) Assemble(ctx context.Context, code string) (*entities.BillingPlan, error) {
	code = entities.CanonicalCode(code)
	if !entities.ValidCode(code) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%q is not a valid CCAM code", code))
	}

	if plan := s.cachedPlan(ctx, code); plan != nil {
		return plan, nil
	}

	snap := s.store.Current()
	main, ok := snap.Get(code)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("code %s not found in the CCAM catalog", code))
	}

	gestures, anesthesia := s.authoritativeGroups(snap, code)
	frequent := s.frequentGroup(snap, code)

	plan := &entities.BillingPlan{
		MainCode:              main,
		ComplementaryGestures: gestures,
		AnesthesiaCodes:       anesthesia,
		FrequentAssociations:  frequent,
	}

	s.storePlan(ctx, code, plan)
	return plan, nil
}

// authoritativeGroups joins each declared edge to its target entry and
// splits the result into gesture and anesthesia lists, each ordered by
// descending public cost weight.
func (s *BillingService) authoritativeGroups(snap *catalog.Snapshot, code string) (gestures, anesthesia []entities.PlanItem) {
	gestures = []entities.PlanItem{}
	anesthesia = []entities.PlanItem{}

	for _, edge := range snap.EdgesFrom(code) {
		item := entities.PlanItem{Code: edge.AssociatedCode, Activity: edge.Activity}
		if target, ok := snap.Get(edge.AssociatedCode); ok {
			item.Label = target.Label
			item.ICRPublic = target.ICRPublic
			item.ICRPrivate = target.ICRPrivate
			item.TarifBase = target.TarifBase
			item.Classant = target.Classant
			item.CodingInstruction = target.CodingInstruction
			item.ParagraphTitle = target.ParagraphTitle
			item.Expired = target.Expired()
		}
		if edge.AssociationType == entities.AssociationTypeAnesthesia {
			anesthesia = append(anesthesia, item)
		} else {
			gestures = append(gestures, item)
		}
	}

	sortPlanItems(gestures)
	sortPlanItems(anesthesia)
	return gestures, anesthesia
}

// frequentGroup returns the observed associations in rank order, skipping
// any target already present in the authoritative groups.
func (s *BillingService) frequentGroup(snap *catalog.Snapshot, code string) []entities.FrequentItem {
	frequent := []entities.FrequentItem{}
	for _, obs := range snap.ObservedFrom(code) {
		if snap.HasEdgeTo(code, obs.AssociatedCode) {
			continue
		}
		item := entities.FrequentItem{
			Code:       obs.AssociatedCode,
			Label:      obs.Label,
			ICRPublic:  obs.ICRPublic,
			Confidence: obs.Confidence,
			Rank:       obs.Rank,
		}
		if target, ok := snap.Get(obs.AssociatedCode); ok {
			item.TarifBase = target.TarifBase
			if item.Label == "" {
				item.Label = target.Label
			}
		}
		frequent = append(frequent, item)
	}
	return frequent
}

func sortPlanItems(items []entities.PlanItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := icrOrZero(items[i].ICRPublic), icrOrZero(items[j].ICRPublic)
		if a != b {
			return a > b
		}
		return items[i].Code < items[j].Code
	})
}

func icrOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (s *BillingService) cachedPlan(ctx context.Context, code string) *entities.BillingPlan {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, planCacheKey(code))
	if err != nil {
		observability.RecordCacheMetric(ctx, s.metrics, planCacheKey(code), false)
		return nil
	}
	var plan entities.BillingPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil
	}
	observability.RecordCacheMetric(ctx, s.metrics, planCacheKey(code), true)
	return &plan
}

func (s *BillingService) storePlan(ctx context.Context, code string, plan *entities.BillingPlan) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, planCacheKey(code), data, planCacheTTLSeconds); err != nil {
		observability.LoggerFromContext(ctx).Debug().Str("code", code).Err(err).Msg("failed to cache billing plan")
	}
}

func planCacheKey(code string) string {
	return "billing:plan:" + code
}
