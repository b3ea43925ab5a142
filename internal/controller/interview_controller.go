package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/rs/zerolog/log"
)

type InterviewController struct {
	interviewService service.InterviewService
	persister        service.ResultPersister
}

func NewInterviewController(interviewService service.InterviewService, persister service.ResultPersister) *InterviewController {
	return &InterviewController{
		interviewService: interviewService,
		persister:        persister,
	}
}

// CreateInterview godoc
// @Summary Create a new interview configuration
// @Description Creates an interview in 'in_progress' status for the given field, category and experience level.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param interview body dto.CreateInterviewDTO true "Interview configuration"
// @Success 201 {object} dto.InterviewSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interviews [post]
func (c *InterviewController) CreateInterview(ctx *gin.Context) {
	var req dto.CreateInterviewDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateInterview: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	summary, err := c.interviewService.CreateInterview(req)
	if err != nil {
		var validationErr *apperr.ValidationError
		if errors.As(err, &validationErr) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: validationErr.Message})
			return
		}
		log.Error().Err(err).Msg("CreateInterview: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create interview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, summary)
}

// GetOwnerInterviews godoc
// @Summary List an owner's interviews
// @Description Lists interviews for an owner, newest first. Owner ID comes from query until auth integration provides it.
// @Tags Interviews
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Success 200 {array} dto.InterviewSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing owner ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interviews [get]
func (c *InterviewController) GetOwnerInterviews(ctx *gin.Context) {
	ownerID := ctx.Query("owner_id")
	if ownerID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "owner_id query parameter is required"})
		return
	}

	interviews, err := c.interviewService.GetOwnerInterviews(ownerID)
	if err != nil {
		log.Error().Err(err).Str("ownerID", ownerID).Msg("GetOwnerInterviews: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve interviews", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, interviews)
}

// GetInterviewDetails godoc
// @Summary Get the full report view of an interview
// @Description Returns the interview with its ordered question results and stored analysis report once completed. Report fields are absent while in progress.
// @Tags Interviews
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.InterviewDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /interviews/{interview_id} [get]
func (c *InterviewController) GetInterviewDetails(ctx *gin.Context) {
	interviewID := ctx.Param("interview_id")
	details, err := c.interviewService.GetInterviewDetails(interviewID)
	if err != nil {
		if errors.Is(err, service.ErrInterviewNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
			return
		}
		log.Error().Err(err).Str("interviewID", interviewID).Msg("GetInterviewDetails: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve interview", Details: []string{err.Error()}})
		return
	}

	if degraded, err := c.persister.CheckIntegrity(interviewID); err == nil && degraded {
		// Completed with zero question rows: the finalize question batch
		// never landed. Flag it so a caller can repair instead of trusting
		// an empty report.
		log.Warn().Str("interviewID", interviewID).Msg("GetInterviewDetails: interview completed without question rows.")
		ctx.Header("X-Report-Degraded", "true")
	}
	ctx.JSON(http.StatusOK, details)
}
