package scorer

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

// Exact scores substring-containment evidence. The genetic component
// is binary: any hit contributes a constant 1.0. A malformed age-range
// label in the catalog is skipped with a warning and never aborts the
// call.
type Exact struct {
	catalog *catalog.Catalog
	logger  *logrus.Logger
}

// NewExact creates the exact scoring strategy.
func NewExact(cat *catalog.Catalog, logger *logrus.Logger) *Exact {
	return &Exact{catalog: cat, logger: logger}
}

// Mode returns the strategy's mode.
func (s *Exact) Mode() domain.Mode {
	return domain.ModeExact
}

// Score computes genetic × prevalence × age × gender per disease,
// scales by 100000 for display, and returns the breakdowns sorted by
// descending display score. The sort is stable, so ties keep their
// evidence order.
func (s *Exact) Score(matches []domain.MatchEvidence, age *int, gender domain.Gender) ([]domain.ScoreBreakdown, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	var out []domain.ScoreBreakdown
	for _, ev := range matches {
		rec, ok := s.catalog.Get(ev.Disease)
		if !ok {
			s.logger.WithField("disease", ev.Disease).Warn("Match evidence references unknown disease; skipping")
			continue
		}

		prevalence := rec.Prevalence
		if prevalence == 0 {
			prevalence = DefaultPrevalenceExact
		}
		ageMult := s.ageMultiplier(rec, age)
		genderMult := genderMultiplier(rec, gender)

		const genetic = 1.0
		raw := genetic * prevalence * ageMult * genderMult
		out = append(out, domain.ScoreBreakdown{
			Disease:          rec.Name,
			Description:      rec.Description,
			MarkersFound:     ev.Hits,
			GeneticComponent: genetic,
			Prevalence:       prevalence,
			AgeMultiplier:    ageMult,
			GenderMultiplier: genderMult,
			RiskScore:        raw * displayScale,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskScore > out[j].RiskScore
	})
	return out, nil
}

// ageMultiplier scans the record's age ranges in stored order and
// takes the first containing range. An age outside every configured
// range falls back to the neutral multiplier.
func (s *Exact) ageMultiplier(rec *domain.DiseaseRecord, age *int) float64 {
	if age == nil {
		return 1.0
	}
	for _, entry := range rec.AgeRisk {
		start, end, err := parseAgeRange(entry.Range)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"disease":   rec.Name,
				"age_range": entry.Range,
			}).Warn("Skipping malformed age range")
			continue
		}
		if start <= *age && *age <= end {
			return entry.Multiplier
		}
	}
	return 1.0
}
