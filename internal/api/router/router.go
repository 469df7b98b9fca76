package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-class-flow/backend/config"
	"smart-class-flow/backend/internal/api/handler"
	"smart-class-flow/backend/internal/api/middleware"
	"smart-class-flow/backend/pkg/jwt"
	"smart-class-flow/backend/pkg/redis"
)

// maxBodyBytes 全局请求体上限（1MB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录/注册加速率限制防暴力破解）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		// 路由层只做身份认证，资源级权限由 Service 层的策略引擎判定
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout(jwtMgr, rdb))
			authorized.GET("/auth/me", h.Auth.GetCurrentIdentity)

			// 个人资料模块
			profiles := authorized.Group("/profiles")
			{
				profiles.GET("", h.Profile.ListProfiles)
				profiles.GET("/me", h.Profile.GetMyProfile)
				profiles.PUT("/me", h.Profile.UpdateMyProfile)
				profiles.GET("/:id", h.Profile.GetProfile)
			}

			// 教室模块
			classrooms := authorized.Group("/classrooms")
			{
				classrooms.GET("", h.Classroom.ListClassrooms)
				classrooms.GET("/:id", h.Classroom.GetClassroom)
				classrooms.POST("", h.Classroom.CreateClassroom)
				classrooms.PUT("/:id", h.Classroom.UpdateClassroom)
				classrooms.DELETE("/:id", h.Classroom.DeleteClassroom)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", h.Course.CreateCourse)
				courses.PUT("/:id", h.Course.UpdateCourse)
				courses.DELETE("/:id", h.Course.DeleteCourse)
			}

			// 课表模块
			timetable := authorized.Group("/timetable")
			{
				timetable.GET("", h.Timetable.ListEntries)
				timetable.GET("/:id", h.Timetable.GetEntry)
				timetable.POST("", h.Timetable.CreateEntry)
				timetable.PUT("/:id", h.Timetable.UpdateEntry)
				timetable.DELETE("/:id", h.Timetable.DeleteEntry)
			}

			// 反馈模块
			feedback := authorized.Group("/feedback")
			{
				feedback.GET("", h.Feedback.ListFeedback)
				feedback.GET("/:id", h.Feedback.GetFeedback)
				feedback.POST("", h.Feedback.CreateFeedback)
				feedback.PUT("/:id", h.Feedback.UpdateFeedback)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/timetable.xlsx", h.Export.ExportTimetableXLSX)
				export.GET("/timetable.ics", h.Export.ExportTimetableICS)
			}
		}
	}

	return r
}
