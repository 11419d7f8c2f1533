// Package domain contains the core entities for DNA marker screening:
// the disease catalog records, the match evidence produced by the
// matching strategies, and the score breakdowns produced by the
// scoring strategies.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Mode selects one of the two matching/scoring strategy pairs.
type Mode string

const (
	ModeExact      Mode = "exact"
	ModeSimilarity Mode = "similarity"
)

// IsValid reports whether the mode is one of the supported strategies.
func (m Mode) IsValid() bool {
	switch m {
	case ModeExact, ModeSimilarity:
		return true
	default:
		return false
	}
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// ParseMode normalizes a user-supplied mode string. An empty string
// maps to the given fallback.
func ParseMode(s string, fallback Mode) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unsupported analysis mode %q", s)
	}
	return m, nil
}

// Gender is an optional demographic input. Anything other than M or F
// is treated as unspecified and contributes a neutral multiplier.
type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderUnspecified Gender = ""
)

// NormalizeGender uppercases and maps unknown values to unspecified.
func NormalizeGender(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return GenderMale
	case "F":
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

// Specified reports whether the gender carries a usable value.
func (g Gender) Specified() bool {
	return g == GenderMale || g == GenderFemale
}

// AgeRiskEntry is one "start-end" age range with its risk multiplier.
type AgeRiskEntry struct {
	Range      string  `json:"range"`
	Multiplier float64 `json:"multiplier"`
}

// AgeRiskTable preserves the catalog document's key order. The first
// entry whose range contains the patient age wins, so iteration order
// is part of the contract and a plain map cannot represent it.
type AgeRiskTable []AgeRiskEntry

// UnmarshalJSON decodes a JSON object into ordered entries. The
// encoding/json map type would randomize key order; this decoder walks
// the token stream instead.
func (t *AgeRiskTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("age_risk: expected JSON object, got %v", tok)
	}

	entries := AgeRiskTable{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("age_risk: expected string key, got %v", keyTok)
		}
		var multiplier float64
		if err := dec.Decode(&multiplier); err != nil {
			return fmt.Errorf("age_risk[%s]: %w", key, err)
		}
		entries = append(entries, AgeRiskEntry{Range: key, Multiplier: multiplier})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = entries
	return nil
}

// DiseaseRecord is one catalog entry. Records are immutable after the
// catalog is loaded.
type DiseaseRecord struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Markers     []string           `json:"markers"`
	Prevalence  float64            `json:"prevalence,omitempty"`
	AgeRisk     AgeRiskTable       `json:"age_risk,omitempty"`
	GenderRisk  map[string]float64 `json:"gender_risk,omitempty"`
}

// MarkerHit is a single matched marker. Similarity is populated only
// by the similarity strategy; the exact strategy records boolean
// containment and leaves it zero.
type MarkerHit struct {
	Marker     string  `json:"marker"`
	Similarity float64 `json:"similarity,omitempty"`
}

// MatchEvidence is the per-disease output of a matching strategy.
// Diseases with no qualifying hits never appear as evidence.
type MatchEvidence struct {
	Disease string      `json:"disease"`
	Hits    []MarkerHit `json:"hits"`
}

// ScoreBreakdown is the per-disease output of a scoring strategy.
//
// RiskScore is the exact-mode display score (raw product scaled by
// 100000 — a relative ranking value, not a probability).
// WeightedProbability and FinalProbability belong to the similarity
// strategy; FinalProbability is nil when the weighted total across all
// matched diseases is zero, in which case normalization is undefined.
type ScoreBreakdown struct {
	Disease             string      `json:"disease"`
	Description         string      `json:"description,omitempty"`
	MarkersFound        []MarkerHit `json:"markers_found"`
	GeneticComponent    float64     `json:"genetic_component"`
	Prevalence          float64     `json:"prevalence"`
	AgeMultiplier       float64     `json:"age_multiplier"`
	GenderMultiplier    float64     `json:"gender_multiplier"`
	RiskScore           float64     `json:"risk_score,omitempty"`
	WeightedProbability float64     `json:"weighted_probability,omitempty"`
	FinalProbability    *float64    `json:"final_probability,omitempty"`
}

// AnalysisResult is the ordered outcome of one analysis call.
type AnalysisResult struct {
	RequestID string           `json:"request_id"`
	Mode      Mode             `json:"mode"`
	Results   []ScoreBreakdown `json:"results"`
	Message   string           `json:"message,omitempty"`
}

// HasMatches distinguishes the "no markers found" sentinel from a
// populated result.
func (r *AnalysisResult) HasMatches() bool {
	return len(r.Results) > 0
}
