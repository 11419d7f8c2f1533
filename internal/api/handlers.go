package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dna-screening-server/internal/domain"
	"github.com/dna-screening-server/internal/history"
	"github.com/dna-screening-server/internal/service"
)

// minSequenceLength is the shortest input accepted for exact-mode
// analysis; anything shorter cannot contain a meaningful marker hit.
const minSequenceLength = 10

// analyzeRequest is the analysis payload, accepted as form data or
// JSON.
type analyzeRequest struct {
	Sequence string `form:"dna_sequence" json:"dna_sequence"`
	Age      *int   `form:"age" json:"age"`
	Gender   string `form:"gender" json:"gender"`
	Mode     string `form:"mode" json:"mode"`
}

// handleAnalyze validates the request, runs the analysis, and renders
// the result. "No markers found" is a successful response with an
// explanatory message, distinct from validation failures and internal
// errors.
func (s *Server) handleAnalyze(c *gin.Context) {
	requestID := c.GetString("correlation_id")

	var req analyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		s.badRequest(c, domain.ErrInvalidInput, "Malformed request body")
		return
	}

	sequence := strings.ToUpper(strings.TrimSpace(req.Sequence))
	if sequence == "" {
		s.badRequest(c, domain.ErrEmptyInput, "DNA sequence is required")
		return
	}

	mode, err := domain.ParseMode(req.Mode, s.defaultMode)
	if err != nil {
		s.badRequest(c, domain.ErrInvalidInput, "Mode must be exact or similarity (or leave blank)")
		return
	}

	if mode == domain.ModeExact {
		if !isValidDNA(sequence) {
			s.badRequest(c, domain.ErrInvalidCharacters, "Invalid characters in DNA sequence. Use only A, T, C, G")
			return
		}
		if len(sequence) < minSequenceLength {
			s.badRequest(c, domain.ErrInvalidInput, "DNA sequence seems too short for meaningful analysis")
			return
		}
	}

	if req.Age != nil && (*req.Age < 0 || *req.Age > 120) {
		s.badRequest(c, domain.ErrAgeOutOfRange, "Age must be between 0 and 120")
		return
	}

	genderInput := strings.ToUpper(strings.TrimSpace(req.Gender))
	if genderInput != "" && genderInput != "M" && genderInput != "F" {
		s.badRequest(c, domain.ErrInvalidGender, "Gender must be M or F (or leave blank)")
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), &service.AnalysisRequest{
		RequestID: requestID,
		Sequence:  sequence,
		Age:       req.Age,
		Gender:    domain.NormalizeGender(genderInput),
		Mode:      mode,
	})
	if err != nil {
		s.renderError(c, requestID, err)
		return
	}

	message := result.Message
	if message == "" {
		message = "Analysis complete. See results below."
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id": result.RequestID,
		"mode":       result.Mode,
		"message":    message,
		"results":    resultsOrEmpty(result),
	})
}

// handleDiseases lists the loaded catalog.
func (s *Server) handleDiseases(c *gin.Context) {
	type diseaseSummary struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Markers     int    `json:"markers"`
	}

	diseases := make([]diseaseSummary, 0, s.catalog.Len())
	for _, rec := range s.catalog.Diseases() {
		diseases = append(diseases, diseaseSummary{
			Name:        rec.Name,
			Description: rec.Description,
			Markers:     len(rec.Markers),
		})
	}
	c.JSON(http.StatusOK, gin.H{"diseases": diseases})
}

// handleAnalyses returns recent entries from the analysis log.
func (s *Server) handleAnalyses(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis history is not enabled"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := s.history.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list analysis history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred. Please try again later."})
		return
	}
	total, err := s.history.Count(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to count analysis history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred. Please try again later."})
		return
	}

	if records == nil {
		records = []*history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    total,
		"analyses": records,
	})
}

// badRequest renders a validation failure.
func (s *Server) badRequest(c *gin.Context, kind domain.ErrorKind, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"kind":  kind,
	})
}

// renderError maps typed analysis failures to status codes. Internal
// details are logged, never sent to the client.
func (s *Server) renderError(c *gin.Context, requestID string, err error) {
	ae, ok := domain.AsAnalysisError(err)
	if !ok {
		s.logger.WithError(err).WithField("request_id", requestID).Error("Unexpected analysis failure")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An internal error occurred during analysis. Please try again later.",
		})
		return
	}

	switch {
	case ae.IsInput():
		c.JSON(http.StatusBadRequest, gin.H{"error": ae.Message, "kind": ae.Kind})
	case ae.Kind == domain.ErrCatalogUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ae.Message, "kind": ae.Kind})
	default:
		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"kind":       ae.Kind,
			"details":    ae.Details,
		}).Error("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An internal error occurred during analysis. Please try again later.",
			"kind":  ae.Kind,
		})
	}
}

// resultsOrEmpty keeps the results field an array in JSON even when
// nothing matched.
func resultsOrEmpty(result *domain.AnalysisResult) []domain.ScoreBreakdown {
	if result.Results == nil {
		return []domain.ScoreBreakdown{}
	}
	return result.Results
}

// isValidDNA reports whether an uppercased sequence contains only
// A/T/C/G bases.
func isValidDNA(sequence string) bool {
	for i := 0; i < len(sequence); i++ {
		switch sequence[i] {
		case 'A', 'T', 'C', 'G':
		default:
			return false
		}
	}
	return true
}
