package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecallAtK(t *testing.T) {
	tests := []struct {
		name      string
		relevant  []string
		retrieved []string
		k         int
		want      float64
	}{
		{"all found", []string{"AAAA001", "BBBB002"}, []string{"AAAA001", "BBBB002", "CCCC003"}, 10, 1.0},
		{"half found", []string{"AAAA001", "BBBB002"}, []string{"AAAA001", "CCCC003"}, 10, 0.5},
		{"none found", []string{"AAAA001"}, []string{"CCCC003"}, 10, 0.0},
		{"empty relevant", nil, []string{"AAAA001"}, 10, 0.0},
		{"beyond k ignored", []string{"CCCC003"}, []string{"AAAA001", "BBBB002", "CCCC003"}, 2, 0.0},
		{"empty retrieved", []string{"AAAA001"}, nil, 10, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RecallAtK(tt.relevant, tt.retrieved, tt.k), 1e-9)
		})
	}
}

func TestMRRAtK(t *testing.T) {
	tests := []struct {
		name      string
		relevant  []string
		retrieved []string
		k         int
		want      float64
	}{
		{"first position", []string{"AAAA001"}, []string{"AAAA001", "BBBB002"}, 10, 1.0},
		{"third position", []string{"CCCC003"}, []string{"AAAA001", "BBBB002", "CCCC003"}, 10, 1.0 / 3},
		{"not found", []string{"DDDD004"}, []string{"AAAA001"}, 10, 0.0},
		{"beyond k", []string{"CCCC003"}, []string{"AAAA001", "BBBB002", "CCCC003"}, 2, 0.0},
		{"empty inputs", nil, nil, 10, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MRRAtK(tt.relevant, tt.retrieved, tt.k), 1e-9)
		})
	}
}
