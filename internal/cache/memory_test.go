package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dna-screening-server/internal/domain"
)

func intPtr(v int) *int {
	return &v
}

func TestKey(t *testing.T) {
	base := Key(domain.ModeExact, "ATCGATCGAT", intPtr(30), domain.GenderFemale)
	assert.Equal(t, base, Key(domain.ModeExact, "ATCGATCGAT", intPtr(30), domain.GenderFemale),
		"identical requests must share a key")

	// Every request dimension must change the fingerprint.
	assert.NotEqual(t, base, Key(domain.ModeSimilarity, "ATCGATCGAT", intPtr(30), domain.GenderFemale))
	assert.NotEqual(t, base, Key(domain.ModeExact, "ATCGATCGAA", intPtr(30), domain.GenderFemale))
	assert.NotEqual(t, base, Key(domain.ModeExact, "ATCGATCGAT", intPtr(31), domain.GenderFemale))
	assert.NotEqual(t, base, Key(domain.ModeExact, "ATCGATCGAT", nil, domain.GenderFemale))
	assert.NotEqual(t, base, Key(domain.ModeExact, "ATCGATCGAT", intPtr(30), domain.GenderMale))
}

func TestKey_DoesNotEmbedSequence(t *testing.T) {
	key := Key(domain.ModeExact, "ATCGATCGAT", nil, domain.GenderUnspecified)
	assert.NotContains(t, key, "ATCGATCGAT")
}

func TestMemoryCache_GetSet(t *testing.T) {
	c, err := NewMemoryCache(8)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	results := []domain.ScoreBreakdown{{Disease: "Alpha", RiskScore: 30}}

	_, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k1", results))

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, results, got)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewMemoryCache(2)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []domain.ScoreBreakdown{{Disease: "A"}}))
	require.NoError(t, c.Set(ctx, "b", []domain.ScoreBreakdown{{Disease: "B"}}))
	require.NoError(t, c.Set(ctx, "c", []domain.ScoreBreakdown{{Disease: "C"}}))

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry must be evicted")

	_, ok, err = c.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCache_InvalidSize(t *testing.T) {
	_, err := NewMemoryCache(0)
	assert.Error(t, err)
}
