// Package cache provides the analysis result cache. Matching and
// scoring are pure functions of (mode, sequence, age, gender) against
// an immutable catalog, so results can be cached for the process
// lifetime without invalidation concerns.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dna-screening-server/internal/domain"
)

// ResultCache stores score breakdowns keyed by request fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]domain.ScoreBreakdown, bool, error)
	Set(ctx context.Context, key string, results []domain.ScoreBreakdown) error
	Close() error
}

// Key fingerprints an analysis request. The raw sequence never appears
// in cache keys or logs; only its hash does.
func Key(mode domain.Mode, sequence string, age *int, gender domain.Gender) string {
	ageLabel := "-"
	if age != nil {
		ageLabel = fmt.Sprintf("%d", *age)
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s", mode, sequence, ageLabel, gender)))
	return "analysis:" + hex.EncodeToString(sum[:])
}
