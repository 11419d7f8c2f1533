// Package scorer converts match evidence plus optional patient
// demographics into per-disease risk scores. Two strategies exist
// behind one interface, mirroring the two matching strategies.
package scorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

// Default prevalence factors applied when a record omits prevalence.
// The two strategies inherit different defaults from the two product
// variants they came from.
const (
	DefaultPrevalenceExact      = 0.0001
	DefaultPrevalenceSimilarity = 0.01
)

// displayScale turns the tiny raw exact-mode product into a readable
// relative score. It is a scaling constant, not a probability.
const displayScale = 100000

// Strategy scores matched diseases. Evidence referencing a disease
// absent from the catalog is skipped, never fatal. Empty evidence
// yields empty output and no error. Scoring is pure: identical inputs
// always produce identical output.
type Strategy interface {
	Score(matches []domain.MatchEvidence, age *int, gender domain.Gender) ([]domain.ScoreBreakdown, error)
	Mode() domain.Mode
}

// ForMode returns the scoring strategy for the given mode.
func ForMode(mode domain.Mode, cat *catalog.Catalog, logger *logrus.Logger) (Strategy, error) {
	switch mode {
	case domain.ModeExact:
		return NewExact(cat, logger), nil
	case domain.ModeSimilarity:
		return NewSimilarity(cat), nil
	default:
		return nil, fmt.Errorf("no scoring strategy for mode %q", mode)
	}
}

// parseAgeRange parses a "start-end" label, both bounds inclusive.
func parseAgeRange(label string) (start, end int, err error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("age range %q is not in start-end form", label)
	}
	start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("age range %q has invalid start: %w", label, err)
	}
	end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("age range %q has invalid end: %w", label, err)
	}
	return start, end, nil
}

// genderMultiplier looks up the demographic multiplier, defaulting to
// neutral when the gender is unspecified or the record has no entry.
func genderMultiplier(rec *domain.DiseaseRecord, gender domain.Gender) float64 {
	if !gender.Specified() {
		return 1.0
	}
	if m, ok := rec.GenderRisk[string(gender)]; ok {
		return m
	}
	return 1.0
}
