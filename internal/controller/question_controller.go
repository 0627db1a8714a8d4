package controller

import (
	"adaptive_quiz_backend/internal/service"
	"adaptive_quiz_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service  *service.QuestionService
	Adaptive *service.AdaptiveService
}

func NewQuestionController(svc *service.QuestionService, adaptive *service.AdaptiveService) *QuestionController {
	return &QuestionController{Service: svc, Adaptive: adaptive}
}

// @Summary 创建题目（教师端）
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.CreateQuestion(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// @Summary 获取题目详情（教师端，含答案）
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	q, err := c.Service.GetQuestion(id)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, "Question not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

// @Summary 获取题目列表（教师端）
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	qs, total, err := c.Service.ListQuestions(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  qs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 获取下一道自适应题目（学生端，已脱敏）
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param concept query string false "按知识点过滤候选池"
// @Success 200 {object} util.Response
// @Router /api/questions/next [get]
func (c *QuestionController) GetNextQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	next, err := c.Adaptive.NextQuestion(claims.UserID, ctx.Query("concept"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoQuestionsAvailable):
			util.NotFound(ctx, "No questions available")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, next)
}
