package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studio-booking/config"
	"studio-booking/internal/api/handler"
	"studio-booking/internal/api/middleware"
	"studio-booking/pkg/jwt"
	"studio-booking/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// reg 同时作为 /metrics 的数据来源；users 用于每次请求校验账号启用状态
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	users middleware.ActiveUserChecker,
	reg *prometheus.Registry,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	metrics := middleware.NewMetrics(reg)

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 系统 ──
	r.GET("/", h.System.Welcome)
	r.GET("/health", h.System.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// ── 认证模块（无需认证）──
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login",
			middleware.RateLimit(rdb, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, logger),
			h.Auth.Login,
		)
	}

	// 需要认证的路由
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.ActiveUser(users, logger))
	adminOnly := middleware.RoleAuth(jwt.RoleAdmin)
	{
		authorized.POST("/auth/logout", h.Auth.Logout)
		authorized.GET("/auth/me", h.Auth.Me)
		authorized.GET("/auth/me/classes", h.Auth.MyClasses)

		// 房间模块
		rooms := authorized.Group("/rooms")
		{
			rooms.GET("/", h.Room.List)
			rooms.GET("/:id", h.Room.Get)
		}

		// 预约模块
		bookings := authorized.Group("/bookings")
		{
			bookings.POST("/", h.Booking.Create)
			bookings.GET("/my-bookings", h.Booking.MyBookings)
			bookings.GET("/my-bookings.ics", h.Booking.MyCalendar)
			bookings.GET("/available-slots", h.Booking.AvailableSlots)
			bookings.PUT("/:id", h.Booking.Update) // 本人或管理员（Service 层鉴权）
			bookings.DELETE("/:id", h.Booking.Cancel)
		}

		// 课程模块
		classes := authorized.Group("/classes")
		{
			classes.GET("/room/:room_id", h.Class.ByRoom)
			classes.GET("/", adminOnly, h.Class.List)
			classes.POST("/", adminOnly, h.Class.Create)
			classes.GET("/:id", adminOnly, h.Class.Get)
			classes.PUT("/:id", adminOnly, h.Class.Update)
			classes.DELETE("/:id", adminOnly, h.Class.Delete)
		}

		// 学员模块
		students := authorized.Group("/students", adminOnly)
		{
			students.GET("/", h.Student.List)
			students.POST("/", h.Student.Create)
			students.GET("/room/:room_id", h.Student.ByRoom)
			students.GET("/:id", h.Student.Get)
			students.PUT("/:id", h.Student.Update)
			students.DELETE("/:id", h.Student.Delete)
		}

		// 管理模块
		admin := authorized.Group("/admin", adminOnly)
		{
			admin.GET("/users", h.User.List)
			admin.GET("/users/:id", h.User.Get)
			admin.PUT("/users/:id", h.User.Update)

			admin.GET("/bookings", h.Booking.AllBookings)
			admin.GET("/bookings/export", h.Export.ExportBookings)

			admin.GET("/rooms", h.Room.AdminList)
			admin.POST("/rooms", h.Room.Create)
			admin.PUT("/rooms/:id", h.Room.Update)
			admin.DELETE("/rooms/:id", h.Room.Delete)
		}
	}

	return r
}
