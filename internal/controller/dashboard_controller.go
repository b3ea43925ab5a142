package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/InterviewCoach/internal/dto"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/rs/zerolog/log"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetSummary godoc
// @Summary Get an owner's dashboard summary
// @Description Returns interview totals and null-excluding score averages, overall and per category. Recomputed on every read.
// @Tags Dashboard
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Success 200 {object} dto.DashboardSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing owner ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (c *DashboardController) GetSummary(ctx *gin.Context) {
	ownerID := ctx.Query("owner_id")
	if ownerID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "owner_id query parameter is required"})
		return
	}

	summary, err := c.dashboardService.GetSummary(ownerID)
	if err != nil {
		log.Error().Err(err).Str("ownerID", ownerID).Msg("GetSummary: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute dashboard summary", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
