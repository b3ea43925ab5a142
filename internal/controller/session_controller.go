package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/InterviewCoach/internal/apperr"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/lshigami/InterviewCoach/internal/session"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	interviewService service.InterviewService
	manager          *session.Manager
}

func NewSessionController(interviewService service.InterviewService, manager *session.Manager) *SessionController {
	return &SessionController{
		interviewService: interviewService,
		manager:          manager,
	}
}

// StartSession godoc
// @Summary Start the live session for an interview
// @Description Seeds the coach with the interview context and returns the opening utterance.
// @Tags Session
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.MessageDTO "Coach opening message"
// @Failure 400 {object} dto.ErrorResponse "Interview completed or session already active"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 502 {object} dto.ErrorResponse "Interview coach unavailable"
// @Router /interviews/{interview_id}/session [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	interviewID := ctx.Param("interview_id")
	interview, err := c.interviewService.GetInterview(interviewID)
	if err != nil {
		if errors.Is(err, service.ErrInterviewNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load interview", Details: []string{err.Error()}})
		return
	}

	opening, err := c.manager.Start(ctx.Request.Context(), interview)
	if err != nil {
		respondSessionError(ctx, interviewID, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageDTO{Role: opening.Role, Content: opening.Content})
}

// SubmitMessage godoc
// @Summary Submit one candidate message
// @Description Accepts a candidate turn, returns the coach reply and whether it concluded the interview. Rejected with 409 while a previous reply is outstanding.
// @Tags Session
// @Accept json
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Param message body dto.SubmitMessageDTO true "Candidate message"
// @Success 200 {object} dto.TurnResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or session not accepting messages"
// @Failure 404 {object} dto.ErrorResponse "No live session"
// @Failure 409 {object} dto.ErrorResponse "A reply is still outstanding"
// @Failure 502 {object} dto.ErrorResponse "Interview coach unavailable"
// @Router /interviews/{interview_id}/messages [post]
func (c *SessionController) SubmitMessage(ctx *gin.Context) {
	interviewID := ctx.Param("interview_id")
	var req dto.SubmitMessageDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.manager.Submit(ctx.Request.Context(), interviewID, req.Content)
	if err != nil {
		respondSessionError(ctx, interviewID, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.TurnResponseDTO{
		Reply:     dto.MessageDTO{Role: result.Reply.Role, Content: result.Reply.Content},
		Concluded: result.Concluded,
		State:     string(result.State),
	})
}

// GetMessages godoc
// @Summary Get the visible conversation for a live session
// @Tags Session
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {array} dto.MessageDTO
// @Failure 404 {object} dto.ErrorResponse "No live session"
// @Router /interviews/{interview_id}/messages [get]
func (c *SessionController) GetMessages(ctx *gin.Context) {
	interviewID := ctx.Param("interview_id")
	messages, err := c.manager.Messages(interviewID)
	if err != nil {
		respondSessionError(ctx, interviewID, err)
		return
	}
	dtos := make([]dto.MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, dto.MessageDTO{Role: m.Role, Content: m.Content})
	}
	ctx.JSON(http.StatusOK, dtos)
}

// FinalizeSession godoc
// @Summary Retry a failed finalize
// @Description Re-enters the finalize path for a session that previously failed analysis or persistence. A no-op if the session already finalized.
// @Tags Session
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} map[string]string "Final session state"
// @Failure 404 {object} dto.ErrorResponse "No live session"
// @Failure 502 {object} dto.ErrorResponse "Analysis or persistence failed; retry again"
// @Router /interviews/{interview_id}/finalize [post]
func (c *SessionController) FinalizeSession(ctx *gin.Context) {
	interviewID := ctx.Param("interview_id")
	if err := c.manager.Finalize(ctx.Request.Context(), interviewID); err != nil {
		respondSessionError(ctx, interviewID, err)
		return
	}
	state, err := c.manager.SessionState(interviewID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read session state"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"state": string(state)})
}

// respondSessionError maps the session and finalize error taxonomy onto
// HTTP statuses. Analysis and persistence failures carry a retry hint: the
// session is FAILED, not lost.
func respondSessionError(ctx *gin.Context, interviewID string, err error) {
	var validationErr *apperr.ValidationError
	var agentErr *apperr.AgentError
	var persistErr *apperr.PersistenceError

	switch {
	case errors.Is(err, apperr.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No live session for this interview"})
	case errors.Is(err, apperr.ErrReplyOutstanding):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "A coach reply is still outstanding, wait before sending another message"})
	case errors.Is(err, apperr.ErrSessionConcluded):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Session is no longer accepting messages"})
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: validationErr.Message})
	case errors.As(err, &agentErr):
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Interview coach is unavailable, please resubmit", Details: []string{agentErr.Error()}})
	case apperr.IsAnalysisError(err):
		log.Warn().Err(err).Str("interviewID", interviewID).Msg("Analysis failed during finalize")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Performance analysis failed, retry finalize", Details: []string{err.Error()}})
	case errors.As(err, &persistErr):
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Persistence failed during finalize")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save the interview report, retry finalize", Details: []string{persistErr.Error()}})
	default:
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Unhandled session error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal error", Details: []string{err.Error()}})
	}
}
