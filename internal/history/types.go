// Package history provides persistent storage of analysis runs. It
// records what was analyzed and what ranked first, never the raw DNA
// sequence itself.
package history

import (
	"context"
	"time"
)

// Record is one completed analysis.
type Record struct {
	ID              int64     `json:"id,omitempty"`
	RequestID       string    `json:"request_id"`
	Mode            string    `json:"mode"`
	SequenceLength  int       `json:"sequence_length"`
	Age             *int      `json:"age,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	DiseasesMatched int       `json:"diseases_matched"`
	TopDisease      string    `json:"top_disease,omitempty"`
	TopScore        float64   `json:"top_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store defines the interface for analysis history storage.
type Store interface {
	// Save stores a completed analysis record.
	Save(ctx context.Context, record *Record) error

	// List returns the most recent records with pagination.
	List(ctx context.Context, limit, offset int) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// Close closes the store and releases resources.
	Close() error
}
