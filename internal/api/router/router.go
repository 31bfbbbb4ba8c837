package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jiaoxin/backend/config"
	"jiaoxin/backend/internal/api/handler"
	"jiaoxin/backend/internal/api/middleware"
	"jiaoxin/backend/pkg/jwt"
	"jiaoxin/backend/pkg/redis"
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
	// 请求体上限按最大上传文件放宽 1MB 余量（multipart 头部开销）
	r.Use(middleware.BodyLimit(cfg.Attendance.MaxUploadSize + 1<<20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 考勤机打卡回调（设备以序列号 + API Key 认证，不走 JWT）
		v1.POST("/devices/punch", middleware.RateLimit(rdb, 600, time.Minute), h.Device.Punch)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 教师与薪资配置模块
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Teacher.ListTeachers)
				teachers.GET("/:id", h.Teacher.GetTeacher)
				teachers.POST("", middleware.RoleAuth("admin"), h.Teacher.CreateTeacher)
				teachers.PUT("/:id", middleware.RoleAuth("admin"), h.Teacher.UpdateTeacher)
				teachers.DELETE("/:id", middleware.RoleAuth("admin"), h.Teacher.DeleteTeacher)
				teachers.POST("/salary-configs", middleware.RoleAuth("admin"), h.Teacher.SetSalaryConfig)
				teachers.GET("/:id/salary-configs", h.Teacher.ListSalaryConfigs)
			}

			// 考勤时段模块
			timings := authorized.Group("/timings")
			{
				timings.GET("", h.Timing.ListTimings)
				timings.GET("/active", h.Timing.GetActiveTiming)
				timings.POST("", middleware.RoleAuth("admin"), h.Timing.CreateTiming)
				timings.PUT("/:id", middleware.RoleAuth("admin"), h.Timing.UpdateTiming)
				timings.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Timing.ActivateTiming)
				timings.DELETE("/:id", middleware.RoleAuth("admin"), h.Timing.DeleteTiming)
			}

			// 扣款规则模块
			rules := authorized.Group("/rules")
			{
				rules.GET("", h.Timing.ListRules)
				rules.POST("", middleware.RoleAuth("admin"), h.Timing.CreateRule)
				rules.PUT("/:id", middleware.RoleAuth("admin"), h.Timing.UpdateRule)
				rules.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Timing.ActivateRule)
				rules.DELETE("/:id", middleware.RoleAuth("admin"), h.Timing.DeleteRule)
			}

			// 考勤记录与导入模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/upload", h.Attendance.Upload)
				attendance.GET("/uploads", h.Attendance.ListBatches)
				attendance.GET("/uploads/:id", h.Attendance.GetBatch)
				attendance.GET("/records", h.Attendance.ListRecords)
				attendance.PUT("/records/override", h.Attendance.Override)
				attendance.GET("/summary", h.Attendance.Summary)
			}

			// 月度薪资模块
			salary := authorized.Group("/salary")
			{
				salary.POST("/calculations/recompute", h.Salary.Recompute)
				salary.POST("/calculations/preview", h.Salary.Preview)
				salary.POST("/calculations/approve", middleware.RoleAuth("admin"), h.Salary.Approve)
				salary.POST("/calculations/approve-bulk", middleware.RoleAuth("admin"), h.Salary.BulkApprove)
				salary.GET("/calculations", h.Salary.ListCalculations)
				salary.GET("/calculations/:id", h.Salary.GetCalculation)
				salary.GET("/reports/monthly.xlsx", h.Export.ExportMonthlyReport)
			}

			// 校历假日模块
			holidays := authorized.Group("/holidays")
			{
				holidays.GET("", h.Holiday.ListHolidays)
				holidays.POST("", middleware.RoleAuth("admin"), h.Holiday.CreateHoliday)
				holidays.POST("/import-ics", middleware.RoleAuth("admin"), h.Holiday.ImportICS)
				holidays.DELETE("/:id", middleware.RoleAuth("admin"), h.Holiday.DeleteHoliday)
			}

			// 考勤机管理模块
			devices := authorized.Group("/devices")
			{
				devices.GET("", middleware.RoleAuth("admin"), h.Device.ListDevices)
				devices.POST("", middleware.RoleAuth("admin"), h.Device.CreateDevice)
				devices.PUT("/:id/disable", middleware.RoleAuth("admin"), h.Device.DisableDevice)
				devices.DELETE("/:id", middleware.RoleAuth("admin"), h.Device.DeleteDevice)
			}
		}
	}

	return r
}
