package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/rs/zerolog/log"
)

// AnalyzeController exposes the transcript scoring capability over the
// wire: JSON in, a schema-valid report or {"error": ...} out. This is the
// same contract the HTTP analyzer client consumes, so analysis can run
// in-process or be pointed at a remote deployment interchangeably.
type AnalyzeController struct {
	analyzer service.InterviewAnalyzer
}

func NewAnalyzeController(analyzer service.InterviewAnalyzer) *AnalyzeController {
	return &AnalyzeController{analyzer: analyzer}
}

// analyzeRequest mirrors dto.AnalyzeRequestDTO but binds leniently so a
// missing field produces the contract's {"error"} shape, not gin's.
type analyzeRequest struct {
	Transcript      string `json:"transcript"`
	Field           string `json:"field"`
	ExperienceLevel string `json:"experienceLevel"`
	Category        string `json:"category"`
}

// Analyze godoc
// @Summary Score an interview transcript
// @Description Produces the structured performance report for a transcript. Requires an Authorization credential.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequestDTO true "Transcript and session metadata"
// @Success 200 {object} dto.AnalysisReport
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Missing credential"
// @Failure 500 {object} map[string]string "Analysis failed"
// @Router /analyze [post]
func (c *AnalyzeController) Analyze(ctx *gin.Context) {
	if strings.TrimSpace(ctx.GetHeader("Authorization")) == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization credential"})
		return
	}

	var req analyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if req.Transcript == "" || req.Field == "" || req.ExperienceLevel == "" || req.Category == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "transcript, field, experienceLevel and category are all required"})
		return
	}

	report, err := c.analyzer.Analyze(ctx.Request.Context(), service.AnalysisInput{
		Transcript:      req.Transcript,
		Field:           req.Field,
		ExperienceLevel: req.ExperienceLevel,
		Category:        req.Category,
	})
	if err != nil {
		log.Warn().Err(err).Str("field", req.Field).Msg("Analyze endpoint: analysis failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, report)
}
