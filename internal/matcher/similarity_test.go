package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
)

func TestScore_IdenticalSequences(t *testing.T) {
	for _, seq := range []string{"A", "ATCG", "ATCGTACGATC", "GGGGGGGG"} {
		assert.Equal(t, 1.0, Score(seq, seq), "identical sequences must score exactly 1: %s", seq)
	}
}

func TestScore_EmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Score("", "ATCG"))
	assert.Equal(t, 0.0, Score("ATCG", ""))
	assert.Equal(t, 0.0, Score("", ""))
}

func TestScore_NoMatchingPositions(t *testing.T) {
	assert.Equal(t, 0.0, Score("AAAA", "TTTT"))
	assert.Equal(t, 0.0, Score("ATAT", "TATA"))
}

func TestScore_StreakBonus(t *testing.T) {
	// ATCC vs ATCG: 3/4 positions agree in one run of 3.
	// base = 0.75, bonus = (0.1+0.2+0.3)/4 = 0.15.
	assert.InDelta(t, 0.9, Score("ATCC", "ATCG"), 1e-9)

	// ACAC vs ATAT: positions 0 and 2 agree, runs never exceed 1.
	// base = 0.5, bonus = (0.1+0.1)/4 = 0.05.
	assert.InDelta(t, 0.55, Score("ACAC", "ATAT"), 1e-9)
}

func TestScore_CappedAtOne(t *testing.T) {
	// A long run pushes base+bonus far above 1 before the cap:
	// 11/12 base plus a 0.55 streak bonus.
	assert.Equal(t, 1.0, Score("ATCGATCGATCG", "ATCGATCGATCC"))
}

func TestScore_TruncatesToShorterLength(t *testing.T) {
	// Trailing characters beyond the shared prefix are ignored.
	assert.Equal(t, Score("ATCG", "ATCG"), Score("ATCGGGGGTTTT", "ATCG"))
	assert.Equal(t, Score("ATCG", "ATCG"), Score("ATCG", "ATCGGGGGTTTT"))
}

func TestScore_ArgumentOrderWithEqualLengths(t *testing.T) {
	pairs := [][2]string{
		{"ATCC", "ATCG"},
		{"AAAA", "TTTT"},
		{"ACGT", "ACGA"},
		{"GGTTAACC", "GGTTAACG"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]),
			"equal-length inputs must score identically regardless of order: %v", p)
	}
}

func similarityTestCatalog() *catalog.Catalog {
	return catalog.New([]*domain.DiseaseRecord{
		{Name: "Alpha", Markers: []string{"ATCGTACG", "TTTTTTTT"}},
		{Name: "Beta", Markers: []string{"GGGGCCCC"}},
	})
}

func TestSimilarity_Find(t *testing.T) {
	m := NewSimilarity(similarityTestCatalog())

	evidence := m.Find("ATCGTACG")
	require.Len(t, evidence, 1)
	assert.Equal(t, "Alpha", evidence[0].Disease)
	require.Len(t, evidence[0].Hits, 1)
	assert.Equal(t, "ATCGTACG", evidence[0].Hits[0].Marker)
	assert.Equal(t, 1.0, evidence[0].Hits[0].Similarity)
}

func TestSimilarity_Find_ThresholdIsStrict(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "Gamma", Markers: []string{"ATAT"}},
	})
	m := NewSimilarity(cat)

	// ACAC vs ATAT scores 0.55, below the 0.6 threshold.
	assert.Empty(t, m.Find("ACAC"))
}

func TestSimilarity_Find_LowercaseInput(t *testing.T) {
	m := NewSimilarity(similarityTestCatalog())

	evidence := m.Find("atcgtacg")
	require.Len(t, evidence, 1)
	assert.Equal(t, "Alpha", evidence[0].Disease)
}

func TestSimilarity_Find_PreservesCatalogOrder(t *testing.T) {
	cat := catalog.New([]*domain.DiseaseRecord{
		{Name: "First", Markers: []string{"ATCGATCG"}},
		{Name: "Second", Markers: []string{"ATCGATCG"}},
		{Name: "Third", Markers: []string{"ATCGATCG"}},
	})
	m := NewSimilarity(cat)

	evidence := m.Find("ATCGATCG")
	require.Len(t, evidence, 3)
	assert.Equal(t, "First", evidence[0].Disease)
	assert.Equal(t, "Second", evidence[1].Disease)
	assert.Equal(t, "Third", evidence[2].Disease)
}

func TestSimilarity_Find_OmitsDiseasesWithoutQualifyingPairs(t *testing.T) {
	m := NewSimilarity(similarityTestCatalog())

	evidence := m.Find("GGGGCCCC")
	require.Len(t, evidence, 1)
	assert.Equal(t, "Beta", evidence[0].Disease)
}
