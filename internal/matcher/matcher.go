// Package matcher finds catalog markers in a user-supplied DNA
// sequence. Two strategies exist behind one interface: exact substring
// containment and streak-weighted positional similarity.
package matcher

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

// Strategy finds the diseases whose markers match the input sequence.
// Output preserves the catalog's disease and marker order; diseases
// with no qualifying hits are omitted entirely.
type Strategy interface {
	Find(sequence string) []domain.MatchEvidence
	Mode() domain.Mode
}

// ForMode returns the matching strategy for the given mode.
func ForMode(mode domain.Mode, cat *catalog.Catalog, logger *logrus.Logger) (Strategy, error) {
	switch mode {
	case domain.ModeExact:
		return NewExact(cat, logger), nil
	case domain.ModeSimilarity:
		return NewSimilarity(cat), nil
	default:
		return nil, fmt.Errorf("no matching strategy for mode %q", mode)
	}
}
