package matcher

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

// Exact matches markers by substring containment. Containment is
// boolean: a marker counts once however often it occurs in the input.
type Exact struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

// NewExact creates the exact-containment strategy.
func NewExact(cat *catalog.Catalog, logger *logrus.Logger) *Exact {
	return &Exact{catalog: cat, logger: logger}
}

// Mode returns the strategy's mode.
func (m *Exact) Mode() domain.Mode {
	return domain.ModeExact
}

// Find uppercases the input, strips characters outside A/T/C/G
// (invalid characters are never fatal here), then tests every marker
// for containment. An input left empty after filtering matches
// nothing.
func (m *Exact) Find(sequence string) []domain.MatchEvidence {
	seq := sanitize(strings.ToUpper(sequence))
	if seq == "" {
		return nil
	}
	if len(seq) != len(sequence) {
		m.logger.WithFields(logrus.Fields{
			"input_length":    len(sequence),
			"filtered_length": len(seq),
		}).Warn("Input sequence contained non-ATCG characters; invalid characters removed")
	}

	var evidence []domain.MatchEvidence
	for _, rec := range m.catalog.Diseases() {
		var hits []domain.MarkerHit
		for _, marker := range rec.Markers {
			if strings.Contains(seq, marker) {
				hits = append(hits, domain.MarkerHit{Marker: marker})
			}
		}
		if len(hits) > 0 {
			evidence = append(evidence, domain.MatchEvidence{Disease: rec.Name, Hits: hits})
		}
	}
	return evidence
}

// sanitize keeps only the A/T/C/G bases of an already-uppercased
// sequence.
func sanitize(sequence string) string {
	var b strings.Builder
	b.Grow(len(sequence))
	for i := 0; i < len(sequence); i++ {
		switch sequence[i] {
		case 'A', 'T', 'C', 'G':
			b.WriteByte(sequence[i])
		}
	}
	return b.String()
}
