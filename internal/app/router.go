package app

import (
	"adaptive_quiz_backend/docs"
	"adaptive_quiz_backend/internal/config"
	"adaptive_quiz_backend/internal/middleware"
	"adaptive_quiz_backend/internal/model"
	"adaptive_quiz_backend/pkg/monitoring"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 答题：提交受幂等中间件保护，重试携带相同 Idempotency-Key
		idemTTL := time.Duration(cfg.Idempotency.TTLHours) * time.Hour
		authGroup.POST("/attempts", middleware.Idempotency(a.Redis, idemTTL), c.attempt.SubmitAttempt)
		authGroup.GET("/attempts", c.attempt.ListMyAttempts)

		// 自适应选题（学生端，已脱敏）
		authGroup.GET("/questions/next", c.question.GetNextQuestion)

		// 激励
		authGroup.GET("/leaderboard", c.gamification.GetLeaderboard)
		authGroup.GET("/badges", c.gamification.GetMyBadges)

		// 教师相关接口
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/questions", c.question.CreateQuestion)
			teacher.GET("/questions", c.question.ListQuestions)
			teacher.GET("/questions/:id", c.question.GetQuestion)
			teacher.GET("/students/:studentId/attempts", c.attempt.ListStudentAttempts)
		}
	}
}
