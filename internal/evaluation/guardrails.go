package evaluation

import "fmt"

// GuardrailConfig holds the minimum quality bars a run must clear.
type GuardrailConfig struct {
	MinAvgRecallAt10 float64
	MinAvgMRRAt10    float64
	MinHitRate       float64
}

// DefaultGuardrailConfig returns the bars used in CI.
func DefaultGuardrailConfig() GuardrailConfig {
	return GuardrailConfig{
		MinAvgRecallAt10: 0.6,
		MinAvgMRRAt10:    0.4,
		MinHitRate:       0.8,
	}
}

// Guardrails checks an evaluation summary against configured thresholds.
type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	return &Guardrails{config: config}
}

// Check returns one message per violated threshold; an empty slice means the
// run passed.
func (g *Guardrails) Check(s *EvalSummary) []string {
	var violations []string
	if s.AvgRecallAt10 < g.config.MinAvgRecallAt10 {
		violations = append(violations, fmt.Sprintf(
			"avg recall@10 %.3f below minimum %.3f", s.AvgRecallAt10, g.config.MinAvgRecallAt10))
	}
	if s.AvgMRRAt10 < g.config.MinAvgMRRAt10 {
		violations = append(violations, fmt.Sprintf(
			"avg MRR@10 %.3f below minimum %.3f", s.AvgMRRAt10, g.config.MinAvgMRRAt10))
	}
	if s.TotalQueries > 0 {
		hitRate := float64(s.QueriesWithHits) / float64(s.TotalQueries)
		if hitRate < g.config.MinHitRate {
			violations = append(violations, fmt.Sprintf(
				"hit rate %.3f below minimum %.3f", hitRate, g.config.MinHitRate))
		}
	}
	return violations
}
