package services

import (
	"encoding/json"
	"fmt"
	"os"
)

// RawCandidate is one unvalidated observed association as delivered by the
// external acquisition job.
type RawCandidate struct {
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
}

// CandidateSet maps a source code to its ordered raw candidates.
type CandidateSet map[string][]RawCandidate

// LoadCandidates reads a raw candidate file. The file is the acquisition
// job's output format: a JSON object keyed by source code.
func LoadCandidates(path string) (CandidateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}
	var set CandidateSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse candidates file: %w", err)
	}
	return set, nil
}
