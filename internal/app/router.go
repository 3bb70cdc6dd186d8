package app

import (
	"fittrack_backend/docs"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/model"
	"fittrack_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
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
		authGroup.PUT("/users/profile", c.user.UpdateProfile)
		authGroup.POST("/users/avatar", c.user.UploadAvatar)

		// 动作库
		authGroup.GET("/exercises", c.exercise.List)
		authGroup.GET("/exercises/:id", c.exercise.Get)

		// 训练会话与组
		authGroup.POST("/workouts", c.workout.StartSession)
		authGroup.GET("/workouts", c.workout.ListSessions)
		authGroup.GET("/workouts/:id", c.workout.GetSession)
		authGroup.DELETE("/workouts/:id", c.workout.DeleteSession)
		authGroup.POST("/workouts/:id/complete", c.workout.CompleteSession)
		authGroup.POST("/workouts/:id/discard", c.workout.DiscardSession)
		authGroup.POST("/workouts/sets", c.workout.LogSet)
		authGroup.PUT("/workouts/sets/:id", c.workout.UpdateSet)
		authGroup.DELETE("/workouts/sets/:id", c.workout.DeleteSet)

		// 个人纪录与连续打卡
		authGroup.GET("/records", c.record.List)
		authGroup.GET("/records/exercises/:exerciseId", c.record.BestForExercise)
		authGroup.GET("/streaks", c.record.Streaks)

		// 成就
		authGroup.GET("/achievements", c.achievement.List)

		// 挑战
		authGroup.GET("/challenges", c.challenge.ListActive)
		authGroup.GET("/challenges/mine", c.challenge.MyProgress)
		authGroup.POST("/challenges/:id/join", c.challenge.Join)

		// 排行榜与活动流
		authGroup.GET("/leaderboard", c.leaderboard.Top)
		authGroup.GET("/leaderboard/me", c.leaderboard.MyRank)
		authGroup.GET("/activities", c.activity.Recent)
	}

	// 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/exercises", c.exercise.Create)
		admin.POST("/challenges", c.challenge.Create)
	}
}
