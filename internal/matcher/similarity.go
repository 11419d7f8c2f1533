package matcher

import (
	"strings"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

// MatchThreshold is the strict lower bound a similarity score must
// exceed for a marker to count as matched.
const MatchThreshold = 0.6

// streakWeight is the per-position bonus contributed by a run of
// consecutive matching bases.
const streakWeight = 0.1

// Similarity matches markers by position-wise base agreement over the
// shared prefix, rewarding consecutive runs. Invalid characters are
// deliberately not filtered in this mode: a mismatched character
// simply lowers the score.
type Similarity struct {
	catalog *catalog.Catalog
}

// NewSimilarity creates the similarity strategy.
func NewSimilarity(cat *catalog.Catalog) *Similarity {
	return &Similarity{catalog: cat}
}

// Mode returns the strategy's mode.
func (m *Similarity) Mode() domain.Mode {
	return domain.ModeSimilarity
}

// Find scores every (sequence, marker) pair and keeps pairs scoring
// strictly above MatchThreshold, in catalog order.
func (m *Similarity) Find(sequence string) []domain.MatchEvidence {
	seq := strings.ToUpper(sequence)

	var evidence []domain.MatchEvidence
	for _, rec := range m.catalog.Diseases() {
		var hits []domain.MarkerHit
		for _, marker := range rec.Markers {
			if score := Score(seq, marker); score > MatchThreshold {
				hits = append(hits, domain.MarkerHit{Marker: marker, Similarity: score})
			}
		}
		if len(hits) > 0 {
			evidence = append(evidence, domain.MatchEvidence{Disease: rec.Name, Hits: hits})
		}
	}
	return evidence
}

// Score computes the streak-weighted similarity of two sequences.
//
// Both strings are truncated to the shorter length L and compared
// position by position; trailing characters beyond L are ignored (a
// deliberate simplification, not an alignment). The base score is the
// fraction of agreeing positions. Each agreeing position additionally
// contributes streak*0.1 to a bonus accumulator, where streak is the
// length of the current run of consecutive agreements including this
// position, and the accumulator is divided by L. The result is capped
// at 1. Equal non-empty sequences always score exactly 1.
func Score(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	l := len(a)
	if len(b) < l {
		l = len(b)
	}

	matches := 0
	streak := 0
	bonus := 0.0
	for i := 0; i < l; i++ {
		if a[i] == b[i] {
			matches++
			streak++
			bonus += float64(streak) * streakWeight
		} else {
			streak = 0
		}
	}
	if matches == 0 {
		return 0
	}

	score := float64(matches)/float64(l) + bonus/float64(l)
	if score > 1 {
		return 1
	}
	return score
}
