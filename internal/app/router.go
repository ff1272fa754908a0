package app

import (
	"edu_assess_backend/docs"
	"edu_assess_backend/internal/config"
	"edu_assess_backend/internal/middleware"
	"edu_assess_backend/internal/model"
	"edu_assess_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		results := authGroup.Group("/results")
		{
			// 学生提交作答；本人或教师可查看单条/报告（控制器内校验身份）
			results.POST("/submit", c.result.SubmitAssessment)
			results.GET("/:id", c.result.GetResult)
			results.GET("/student/:userId/assessment/:assessmentId", c.result.GetStudentResult)

			// 教师审阅接口
			instructor := results.Group("")
			instructor.Use(middleware.RoleMiddleware(model.Instructor))
			{
				instructor.GET("", c.result.ListResults)
				instructor.PUT("/:id", c.result.UpdateResult)
				instructor.DELETE("/:id", c.result.DeleteResult)
				instructor.GET("/assessment/:assessmentId/submissions", c.result.ListSubmissions)
				instructor.GET("/assessment/:assessmentId/submission/:resultId", c.result.GetDetailedSubmission)
			}
		}
	}
}
