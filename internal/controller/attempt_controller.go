package controller

import (
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/internal/util"
	"adaptive_quiz_backend/pkg/logger"
	"adaptive_quiz_backend/pkg/monitoring"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary 提交答题
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param Idempotency-Key header string false "幂等键，重试时携带相同值"
// @Param body body service.SubmitAttemptRequest true "作答信息"
// @Success 200 {object} util.Response
// @Router /api/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitAttempt(claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidQuestion):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx, "Question not found")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		case errors.Is(err, util.ErrTransactionConflict):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.RecordAttempt(result.Attempt.Correct)
	if len(result.NewBadges) > 0 {
		monitoring.BadgeCounter.Add(float64(len(result.NewBadges)))
	}
	logger.Log.Info("attempt submitted",
		zap.Uint("userId", claims.UserID),
		zap.Uint("questionId", req.QuestionID),
		zap.Bool("correct", result.Attempt.Correct),
		zap.Int("pointsEarned", result.Attempt.PointsEarned),
		zap.Int("newBadges", len(result.NewBadges)),
	)

	util.Success(ctx, result)
}

// @Summary 查询答题历史
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int false "学生ID（教师端）"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)
	attempts, total, err := c.Service.ListAttemptsRedacted(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  attempts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListStudentAttempts 教师查询指定学生的答题历史（完整记录，含答案）
func (c *AttemptController) ListStudentAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if claims.Role != model.Teacher && claims.Role != model.Admin {
		util.Forbidden(ctx)
		return
	}

	studentID := util.MustParseUint(ctx.Param("studentId"))
	if studentID == 0 {
		util.BadRequest(ctx, "invalid studentId")
		return
	}
	c.listAttempts(ctx, studentID)
}

func pageParams(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	return page, limit
}

func (c *AttemptController) listAttempts(ctx *gin.Context, userID uint) {
	page, limit := pageParams(ctx)

	attempts, total, err := c.Service.ListAttempts(userID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  attempts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
