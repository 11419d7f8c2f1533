// Package catalog provides the immutable, in-memory disease marker
// catalog. The catalog is loaded once at process start from a static
// JSON document and never mutated afterwards, so concurrent readers
// need no locking.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/domain"
)

// Catalog maps disease names to their records while preserving the
// source document's disease order, which the matching strategies use
// as their output order.
type Catalog struct {
	records map[string]*domain.DiseaseRecord
	order   []string
}

// New builds a catalog from records in the given order. Records with
// no markers can never be matched and are dropped.
func New(records []*domain.DiseaseRecord) *Catalog {
	c := &Catalog{records: make(map[string]*domain.DiseaseRecord, len(records))}
	for _, rec := range records {
		if rec == nil || rec.Name == "" || len(rec.Markers) == 0 {
			continue
		}
		if _, exists := c.records[rec.Name]; exists {
			continue
		}
		normalized := *rec
		normalized.Markers = make([]string, len(rec.Markers))
		for i, m := range rec.Markers {
			normalized.Markers[i] = strings.ToUpper(m)
		}
		c.records[rec.Name] = &normalized
		c.order = append(c.order, rec.Name)
	}
	return c
}

// Load reads the catalog document at path. Loading fails soft: a
// missing or malformed document yields an empty catalog and a logged
// warning, never an error — every subsequent match then returns no
// results.
func Load(path string, logger *logrus.Logger) *Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("Disease catalog not found; catalog will be empty")
		return New(nil)
	}

	records, err := parseDocument(data)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("Disease catalog is malformed; catalog will be empty")
		return New(nil)
	}

	cat := New(records)
	if cat.Len() == 0 {
		logger.WithField("path", path).Warn("Disease catalog is empty; analysis will return no results")
	} else {
		logger.WithFields(logrus.Fields{
			"path":     path,
			"diseases": cat.Len(),
		}).Info("Disease catalog loaded")
	}
	return cat
}

// recordDoc is the per-disease shape of the catalog document.
type recordDoc struct {
	Description string              `json:"description"`
	Markers     []string            `json:"markers"`
	Prevalence  float64             `json:"prevalence"`
	AgeRisk     domain.AgeRiskTable `json:"age_risk"`
	GenderRisk  map[string]float64  `json:"gender_risk"`
}

// parseDocument decodes the top-level object with a token walk so the
// document's disease order survives into the catalog.
func parseDocument(data []byte) ([]*domain.DiseaseRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading catalog document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("catalog document must be a JSON object, got %v", tok)
	}

	var records []*domain.DiseaseRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading disease name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected disease name, got %v", keyTok)
		}

		var doc recordDoc
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding record for %q: %w", name, err)
		}
		records = append(records, &domain.DiseaseRecord{
			Name:        name,
			Description: doc.Description,
			Markers:     doc.Markers,
			Prevalence:  doc.Prevalence,
			AgeRisk:     doc.AgeRisk,
			GenderRisk:  doc.GenderRisk,
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading catalog document: %w", err)
	}
	return records, nil
}

// Get retrieves a record by disease name.
func (c *Catalog) Get(name string) (*domain.DiseaseRecord, bool) {
	rec, ok := c.records[name]
	return rec, ok
}

// Diseases returns the records in document order.
func (c *Catalog) Diseases() []*domain.DiseaseRecord {
	out := make([]*domain.DiseaseRecord, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.records[name])
	}
	return out
}

// Len returns the number of loaded diseases.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Empty reports whether the catalog has no usable records.
func (c *Catalog) Empty() bool {
	return len(c.order) == 0
}
