package scorer

import (
	"fmt"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

// Similarity scores similarity evidence. The genetic component is the
// mean similarity of a disease's matched pairs, and after all diseases
// are weighted the scores are normalized to percentages summing to
// 100. Unlike the exact strategy, a malformed age-range label here is
// a catalog data defect and fails the whole call with a typed error.
type Similarity struct {
	catalog *catalog.Catalog
}

// NewSimilarity creates the similarity scoring strategy.
func NewSimilarity(cat *catalog.Catalog) *Similarity {
	return &Similarity{catalog: cat}
}

// Mode returns the strategy's mode.
func (s *Similarity) Mode() domain.Mode {
	return domain.ModeSimilarity
}

// Score computes mean-similarity × prevalence × age × gender per
// disease, then normalizes: final probability = weighted / total × 100
// when the total is positive. When the total is zero the final
// probability is left unset for every disease. Output order follows
// the evidence order; sorting by final probability is the caller's
// responsibility.
func (s *Similarity) Score(matches []domain.MatchEvidence, age *int, gender domain.Gender) ([]domain.ScoreBreakdown, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	var out []domain.ScoreBreakdown
	total := 0.0
	for _, ev := range matches {
		rec, ok := s.catalog.Get(ev.Disease)
		if !ok {
			continue
		}
		if len(ev.Hits) == 0 {
			continue
		}

		sum := 0.0
		for _, hit := range ev.Hits {
			sum += hit.Similarity
		}
		base := sum / float64(len(ev.Hits))

		prevalence := rec.Prevalence
		if prevalence == 0 {
			prevalence = DefaultPrevalenceSimilarity
		}
		ageMult, err := s.ageMultiplier(rec, age)
		if err != nil {
			return nil, domain.NewAnalysisError(domain.ErrInternal,
				"disease catalog contains a malformed age range",
				fmt.Sprintf("disease %q: %v", rec.Name, err))
		}
		genderMult := genderMultiplier(rec, gender)

		weighted := base * prevalence * ageMult * genderMult
		total += weighted
		out = append(out, domain.ScoreBreakdown{
			Disease:             rec.Name,
			Description:         rec.Description,
			MarkersFound:        ev.Hits,
			GeneticComponent:    base,
			Prevalence:          prevalence,
			AgeMultiplier:       ageMult,
			GenderMultiplier:    genderMult,
			WeightedProbability: weighted,
		})
	}

	if total > 0 {
		for i := range out {
			final := out[i].WeightedProbability / total * 100
			out[i].FinalProbability = &final
		}
	}
	return out, nil
}

// ageMultiplier scans the record's age ranges in stored order; the
// first containing range wins. Catalog data is assumed well-formed in
// this strategy, so a parse failure propagates.
func (s *Similarity) ageMultiplier(rec *domain.DiseaseRecord, age *int) (float64, error) {
	if age == nil {
		return 1.0, nil
	}
	for _, entry := range rec.AgeRisk {
		start, end, err := parseAgeRange(entry.Range)
		if err != nil {
			return 0, err
		}
		if start <= *age && *age <= end {
			return entry.Multiplier, nil
		}
	}
	return 1.0, nil
}
