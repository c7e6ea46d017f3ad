package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shift-guard/config"
	"shift-guard/internal/api/handler"
	"shift-guard/internal/api/middleware"
	"shift-guard/pkg/redis"
)

// importBodyLimit 排班导入（ICS 文件 / 粘贴文本）请求体上限
const importBodyLimit = 6 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Health)

	// 写接口限流（未启用或无 Redis 时为直通）
	write := func(c *gin.Context) { c.Next() }
	if cfg.Server.RateLimit.Enabled {
		write = middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window, logger)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")

	// 排班导入单独放宽请求体上限
	imports := v1.Group("/shifts/:date/import", middleware.BodyLimit(importBodyLimit), write)
	{
		imports.POST("/ics", h.Import.ImportICS)
		imports.POST("/text", h.Import.ImportText)
	}

	api := v1.Group("", middleware.BodyLimit(cfg.Server.BodyLimit))
	{
		// 岗位目录
		positions := api.Group("/positions")
		{
			positions.GET("", h.Position.ListPositions)
			positions.GET("/:id", h.Position.GetPosition)
			positions.POST("", write, h.Position.CreatePosition)
			positions.PUT("/:id", write, h.Position.UpdatePosition)
			positions.DELETE("/:id", write, h.Position.DeletePosition)
		}

		// 主岗位
		api.GET("/primary-roles", h.PrimaryRole.ListPrimaryRoles)

		// 花名册
		employees := api.Group("/employees")
		{
			employees.GET("", h.Employee.ListEmployees)
			employees.GET("/:id", h.Employee.GetEmployee)
			employees.GET("/:id/positions", h.Employee.QualifiedPositions)
			employees.POST("", write, h.Employee.CreateEmployee)
			employees.PUT("/:id", write, h.Employee.UpdateEmployee)
			employees.DELETE("/:id", write, h.Employee.DeleteEmployee)
		}

		// 合规策略
		api.GET("/compliance-policy", h.Policy.GetPolicy)
		api.PUT("/compliance-policy", write, h.Policy.UpdatePolicy)

		// 当日班次
		shifts := api.Group("/shifts/:date")
		{
			shifts.GET("/board", h.Shift.Board)
			shifts.GET("/queue", h.Shift.Queue)
			shifts.GET("/coverage", h.Shift.Coverage)
			shifts.GET("/export", h.Export.ExportBoard)

			shifts.GET("/undo", h.Shift.UndoLog)
			shifts.POST("/undo", write, h.Shift.Undo)
			shifts.DELETE("/undo", write, h.Shift.ClearUndo)

			shifts.POST("/employees", write, h.Shift.AddEmployee)

			emp := shifts.Group("/employees/:id")
			{
				emp.GET("/coverage-check", h.Shift.CheckCoverage)
				emp.GET("/eligible-covers", h.Shift.EligibleCovers)

				emp.DELETE("", write, h.Shift.RemoveEmployee)
				emp.POST("/lunch/assign", write, h.Shift.AssignLunch)
				emp.POST("/lunch/start", write, h.Shift.StartLunch)
				emp.POST("/lunch/end", write, h.Shift.EndLunch)
				emp.POST("/break/start", write, h.Shift.StartBreak)
				emp.POST("/break/end", write, h.Shift.EndBreak)
				emp.POST("/clock-out", write, h.Shift.ClockOut)
				emp.POST("/absent", write, h.Shift.MarkAbsent)
				emp.PUT("/assignment", write, h.Shift.ChangeAssignment)
				emp.PUT("/times", write, h.Shift.CorrectTimes)
			}
		}
	}

	return r
}
