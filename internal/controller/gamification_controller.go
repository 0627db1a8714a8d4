package controller

import (
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	Service *service.GamificationService
	Limit   int
}

func NewGamificationController(svc *service.GamificationService, leaderboardSize int) *GamificationController {
	return &GamificationController{Service: svc, Limit: leaderboardSize}
}

// @Summary 积分排行榜
// @Tags 激励
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *GamificationController) GetLeaderboard(ctx *gin.Context) {
	userID := uint(0)
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	board, err := c.Service.GetLeaderboard(userID, c.Limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, board)
}

// @Summary 我的徽章
// @Tags 激励
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/badges [get]
func (c *GamificationController) GetMyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.Service.GetUserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}
