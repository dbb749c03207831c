package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardrails_Pass(t *testing.T) {
	g := NewGuardrails(DefaultGuardrailConfig())
	summary := &EvalSummary{
		TotalQueries:    10,
		QueriesWithHits: 9,
		AvgRecallAt10:   0.8,
		AvgMRRAt10:      0.7,
	}
	assert.Empty(t, g.Check(summary))
}

func TestGuardrails_Violations(t *testing.T) {
	g := NewGuardrails(DefaultGuardrailConfig())
	summary := &EvalSummary{
		TotalQueries:    10,
		QueriesWithHits: 3,
		AvgRecallAt10:   0.1,
		AvgMRRAt10:      0.1,
	}
	violations := g.Check(summary)
	assert.Len(t, violations, 3)
}
