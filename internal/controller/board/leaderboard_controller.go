package board

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/service"
)

type LeaderboardController struct {
	leaderboardService service.LeaderboardService
}

func NewLeaderboardController(leaderboardService service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{leaderboardService: leaderboardService}
}

// GetGlobalLeaderboard godoc
// @Summary Global leaderboard by lifetime points
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {array} dto.LeaderboardEntryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /leaderboard [get]
func (c *LeaderboardController) GetGlobalLeaderboard(ctx *gin.Context) {
	limit, ok := parseLimit(ctx)
	if !ok {
		return
	}

	entries, err := c.leaderboardService.GlobalLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("GetGlobalLeaderboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve leaderboard", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// GetClassLeaderboard godoc
// @Summary Class leaderboard by lifetime points
// @Description Same ranking as the global board, restricted to students currently active in the class. An empty class yields an empty list.
// @Tags Leaderboard
// @Produce json
// @Param class_id path string true "Class ID"
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {array} dto.LeaderboardEntryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /classes/{class_id}/leaderboard [get]
func (c *LeaderboardController) GetClassLeaderboard(ctx *gin.Context) {
	classID, err := uuid.Parse(ctx.Param("class_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid class ID"})
		return
	}
	limit, ok := parseLimit(ctx)
	if !ok {
		return
	}

	entries, err := c.leaderboardService.ClassLeaderboard(ctx.Request.Context(), classID, limit)
	if err != nil {
		log.Error().Err(err).Str("classID", classID.String()).Msg("GetClassLeaderboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve class leaderboard", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

func parseLimit(ctx *gin.Context) (int, bool) {
	raw := ctx.Query("limit")
	if raw == "" {
		return service.DefaultLeaderboardLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit"})
		return 0, false
	}
	return limit, true
}
