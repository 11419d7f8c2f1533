package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

func similarityEvidence(disease string, similarities ...float64) domain.MatchEvidence {
	hits := make([]domain.MarkerHit, len(similarities))
	for i, s := range similarities {
		hits[i] = domain.MarkerHit{Marker: "ATCG", Similarity: s}
	}
	return domain.MatchEvidence{Disease: disease, Hits: hits}
}

func TestSimilarityScore_Normalization(t *testing.T) {
	// Prevalence 1.0 makes weighted probability equal the mean
	// similarity, so weights 0.2, 0.3, 0.5 normalize to 20/30/50.
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "W2", Markers: []string{"ATCG"}, Prevalence: 1.0},
		{Name: "W3", Markers: []string{"ATCG"}, Prevalence: 1.0},
		{Name: "W5", Markers: []string{"ATCG"}, Prevalence: 1.0},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("W2", 0.2),
		similarityEvidence("W3", 0.3),
		similarityEvidence("W5", 0.5),
	}, nil, domain.GenderUnspecified)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].FinalProbability)
	require.NotNil(t, results[1].FinalProbability)
	require.NotNil(t, results[2].FinalProbability)
	assert.InDelta(t, 20.0, *results[0].FinalProbability, 1e-9)
	assert.InDelta(t, 30.0, *results[1].FinalProbability, 1e-9)
	assert.InDelta(t, 50.0, *results[2].FinalProbability, 1e-9)

	sum := *results[0].FinalProbability + *results[1].FinalProbability + *results[2].FinalProbability
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestSimilarityScore_MeanSimilarity(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "Alpha", Markers: []string{"ATCG"}, Prevalence: 1.0},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Alpha", 0.7, 0.9),
	}, nil, domain.GenderUnspecified)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.8, results[0].GeneticComponent, 1e-9)
	assert.InDelta(t, 0.8, results[0].WeightedProbability, 1e-9)
}

func TestSimilarityScore_DefaultPrevalence(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "Alpha", Markers: []string{"ATCG"}},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Alpha", 1.0),
	}, nil, domain.GenderUnspecified)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, DefaultPrevalenceSimilarity, results[0].Prevalence)
}

func TestSimilarityScore_ZeroTotalLeavesFinalUnset(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "Alpha", Markers: []string{"ATCG"}, Prevalence: 1.0},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Alpha", 0.0),
	}, nil, domain.GenderUnspecified)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].FinalProbability, "normalization is undefined when the weighted total is zero")
}

func TestSimilarityScore_MalformedAgeRangeIsFatal(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{
			Name:       "Alpha",
			Markers:    []string{"ATCG"},
			Prevalence: 1.0,
			AgeRisk:    domain.AgeRiskTable{{Range: "adult", Multiplier: 2.0}},
		},
	})
	s := NewSimilarity(cat)

	_, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Alpha", 0.8),
	}, intPtr(30), domain.GenderUnspecified)
	require.Error(t, err)

	ae, ok := domain.AsAnalysisError(err)
	require.True(t, ok, "similarity scoring must surface a typed failure")
	assert.Equal(t, domain.ErrInternal, ae.Kind)
}

func TestSimilarityScore_MalformedAgeRangeIgnoredWithoutAge(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{
			Name:       "Alpha",
			Markers:    []string{"ATCG"},
			Prevalence: 1.0,
			AgeRisk:    domain.AgeRiskTable{{Range: "adult", Multiplier: 2.0}},
		},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Alpha", 0.8),
	}, nil, domain.GenderUnspecified)
	require.NoError(t, err, "age ranges are only consulted when an age is given")
	require.Len(t, results, 1)
}

func TestSimilarityScore_DemographicMultipliers(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{
			Name:       "Alpha",
			Markers:    []string{"ATCG"},
			Prevalence: 1.0,
			AgeRisk:    domain.AgeRiskTable{{Range: "30-50", Multiplier: 2.0}},
			GenderRisk: map[string]float64{"F": 1.5},
		},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Alpha", 0.8),
	}, intPtr(40), domain.GenderFemale)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2.0, results[0].AgeMultiplier)
	assert.Equal(t, 1.5, results[0].GenderMultiplier)
	assert.InDelta(t, 0.8*2.0*1.5, results[0].WeightedProbability, 1e-9)
}

func TestSimilarityScore_UnknownDiseaseSkipped(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "Alpha", Markers: []string{"ATCG"}, Prevalence: 1.0},
	})
	s := NewSimilarity(cat)

	results, err := s.Score([]domain.MatchEvidence{
		similarityEvidence("Ghost", 0.9),
		similarityEvidence("Alpha", 0.8),
	}, nil, domain.GenderUnspecified)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Alpha", results[0].Disease)
}

func TestSimilarityScore_EmptyMatches(t *testing.T) {
	s := NewSimilarity(catalog.New(nil))

	results, err := s.Score(nil, nil, domain.GenderUnspecified)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSimilarityScore_Deterministic(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "Alpha", Markers: []string{"ATCG"}, Prevalence: 0.5},
		{Name: "Beta", Markers: []string{"GGCC"}, Prevalence: 0.25},
	})
	s := NewSimilarity(cat)
	matches := []domain.MatchEvidence{
		similarityEvidence("Alpha", 0.7),
		similarityEvidence("Beta", 0.9),
	}

	first, err := s.Score(matches, intPtr(30), domain.GenderMale)
	require.NoError(t, err)
	second, err := s.Score(matches, intPtr(30), domain.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
