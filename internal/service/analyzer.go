// Package service orchestrates a single analysis: match, score, sort,
// cache, and record. Each call is independent and shares nothing
// mutable with concurrent calls except the read-only catalog.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/cache"
	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/domain"
	"github.com/dna-screening-server/internal/history"
	"github.com/dna-screening-server/internal/matcher"
	"github.com/dna-screening-server/internal/scorer"
)

// noMatchMessage is the caller-facing sentinel for an analysis that
// completed successfully but found nothing.
const noMatchMessage = "No known disease markers found in the provided sequence."

// AnalysisRequest carries a pre-validated analysis. The boundary is
// responsible for rejecting out-of-range ages and unknown genders;
// the core falls back to neutral multipliers if handed them anyway.
type AnalysisRequest struct {
	RequestID string
	Sequence  string
	Age       *int
	Gender    domain.Gender
	Mode      domain.Mode
}

// Analyzer runs analyses against an immutable catalog. The cache and
// history store are optional; a nil cache disables result caching and
// a nil store disables the analysis log.
type Analyzer struct {
	logger  *logrus.Logger
	catalog *catalog.Catalog
	cache   cache.ResultCache
	history history.Store
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger *logrus.Logger, cat *catalog.Catalog, resultCache cache.ResultCache, store history.Store) *Analyzer {
	return &Analyzer{
		logger:  logger,
		catalog: cat,
		cache:   resultCache,
		history: store,
	}
}

// Analyze matches the sequence against the catalog and scores the
// matches. All failures cross this boundary as *domain.AnalysisError.
func (a *Analyzer) Analyze(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeExact
	}
	if !mode.IsValid() {
		return nil, domain.NewAnalysisError(domain.ErrInvalidInput,
			"unsupported analysis mode", string(mode))
	}
	if req.Sequence == "" {
		return nil, domain.NewAnalysisError(domain.ErrEmptyInput,
			"DNA sequence is required", "")
	}
	if a.catalog == nil || a.catalog.Empty() {
		return nil, domain.NewAnalysisError(domain.ErrCatalogUnavailable,
			"disease catalog is empty or failed to load", "")
	}

	a.logger.WithFields(logrus.Fields{
		"request_id":      requestID,
		"mode":            mode,
		"sequence_length": len(req.Sequence),
		"age_provided":    req.Age != nil,
		"gender_provided": req.Gender.Specified(),
	}).Info("Starting DNA analysis")

	key := cache.Key(mode, req.Sequence, req.Age, req.Gender)
	if a.cache != nil {
		if results, ok, err := a.cache.Get(ctx, key); err != nil {
			a.logger.WithError(err).WithField("request_id", requestID).Warn("Result cache read failed")
		} else if ok {
			a.logger.WithField("request_id", requestID).Debug("Result cache hit")
			return a.buildResult(requestID, mode, results), nil
		}
	}

	match, err := matcher.ForMode(mode, a.catalog, a.logger)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrInternal, "failed to select matching strategy", err.Error())
	}
	score, err := scorer.ForMode(mode, a.catalog, a.logger)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrInternal, "failed to select scoring strategy", err.Error())
	}

	evidence := match.Find(req.Sequence)
	results, err := score.Score(evidence, req.Age, req.Gender)
	if err != nil {
		if ae, ok := domain.AsAnalysisError(err); ok {
			ae.RequestID = requestID
			return nil, ae
		}
		return nil, domain.NewAnalysisError(domain.ErrInternal, "scoring failed", err.Error())
	}

	// The similarity scorer leaves ordering to the caller.
	if mode == domain.ModeSimilarity {
		sortByFinalProbability(results)
	}

	if a.cache != nil && len(results) > 0 {
		if err := a.cache.Set(ctx, key, results); err != nil {
			a.logger.WithError(err).WithField("request_id", requestID).Warn("Result cache write failed")
		}
	}

	result := a.buildResult(requestID, mode, results)
	a.record(ctx, req, result)

	a.logger.WithFields(logrus.Fields{
		"request_id":       requestID,
		"mode":             mode,
		"diseases_matched": len(results),
		"processing_time":  time.Since(start),
	}).Info("DNA analysis completed")

	return result, nil
}

// buildResult assembles the outcome, attaching the no-match sentinel
// message when nothing was found.
func (a *Analyzer) buildResult(requestID string, mode domain.Mode, results []domain.ScoreBreakdown) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		RequestID: requestID,
		Mode:      mode,
		Results:   results,
	}
	if len(results) == 0 {
		result.Message = noMatchMessage
	}
	return result
}

// record writes the analysis to the history store, best effort.
func (a *Analyzer) record(ctx context.Context, req *AnalysisRequest, result *domain.AnalysisResult) {
	if a.history == nil {
		return
	}

	rec := &history.Record{
		RequestID:       result.RequestID,
		Mode:            string(result.Mode),
		SequenceLength:  len(req.Sequence),
		Age:             req.Age,
		Gender:          string(req.Gender),
		DiseasesMatched: len(result.Results),
	}
	if len(result.Results) > 0 {
		top := result.Results[0]
		rec.TopDisease = top.Disease
		switch result.Mode {
		case domain.ModeSimilarity:
			if top.FinalProbability != nil {
				rec.TopScore = *top.FinalProbability
			} else {
				rec.TopScore = top.WeightedProbability
			}
		default:
			rec.TopScore = top.RiskScore
		}
	}

	if err := a.history.Save(ctx, rec); err != nil {
		a.logger.WithError(err).WithField("request_id", result.RequestID).Warn("Failed to record analysis history")
	}
}

// sortByFinalProbability orders descending by final probability,
// stable so the evidence order survives normalization ties and the
// total==0 case where no final probability exists.
func sortByFinalProbability(results []domain.ScoreBreakdown) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalProbability == nil || results[j].FinalProbability == nil {
			return false
		}
		return *results[i].FinalProbability > *results[j].FinalProbability
	})
}
