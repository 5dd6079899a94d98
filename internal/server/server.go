package server

import (
	"context"
	"net/http"

	"github.com/Linn-Htet123/mini-gym-api/internal/auth"
	"github.com/Linn-Htet123/mini-gym-api/internal/checkin"
	"github.com/Linn-Htet123/mini-gym-api/internal/config"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/Linn-Htet123/mini-gym-api/internal/registration"
	"github.com/Linn-Htet123/mini-gym-api/internal/scheduler"
	"github.com/Linn-Htet123/mini-gym-api/internal/storage"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainer"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainersub"
	"github.com/Linn-Htet123/mini-gym-api/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Deps carries the services main wires up outside the router: the ones
// shared with the cron scheduler and the notification dispatcher.
type Deps struct {
	Hub           *notification.Hub
	Sink          notification.Sink
	Uploads       *storage.Service
	Subscriptions subscription.Service
	TrainerSubs   trainersub.Service
	Registrations registration.Service
	CheckIns      checkin.Service
	Scheduler     scheduler.Service
}

type Server struct {
	router *gin.Engine
	srv    *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	memberRepo := member.NewRepository(db)

	userHandler := user.NewHandler(db, cfg.JWTSecret, cfg.AdminSecretKey)
	memberHandler := member.NewHandler(db)
	membershipHandler := membership.NewHandler(db)
	trainerHandler := trainer.NewHandler(db)
	notificationHandler := notification.NewHandler(db, deps.Hub, deps.Sink)
	subscriptionHandler := subscription.NewHandler(deps.Subscriptions, memberRepo)
	trainerSubHandler := trainersub.NewHandler(deps.TrainerSubs, memberRepo)
	registrationHandler := registration.NewHandler(deps.Registrations, memberRepo, deps.Uploads)
	checkinHandler := checkin.NewHandler(deps.CheckIns, memberRepo)
	schedulerHandler := scheduler.NewHandler(deps.Scheduler)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(cfg.AuthRateRPS, cfg.AuthRateBurst))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/register-admin", userHandler.RegisterAdmin)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/subscription", subscriptionHandler.MyActive)
		protected.GET("/me/trainer-subscription", trainerSubHandler.MyActive)
		protected.GET("/me/check-ins", checkinHandler.MyHistory)
		protected.POST("/me/check-in", checkinHandler.SelfCheckIn)
		protected.GET("/me/registrations", registrationHandler.ListMine)
		protected.POST("/registrations", registrationHandler.Submit)

		protected.GET("/packages", membershipHandler.ListActive)
		protected.GET("/packages/:id", membershipHandler.Get)
		protected.GET("/trainers", trainerHandler.List)
		protected.GET("/trainers/:id", trainerHandler.Get)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread", notificationHandler.UnreadCount)
		protected.GET("/notifications/stream", notificationHandler.Stream)
		protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/members", memberHandler.Create)
		admin.GET("/members", memberHandler.List)
		admin.GET("/members/:id", memberHandler.Get)
		admin.PUT("/members/:id", memberHandler.Update)
		admin.DELETE("/members/:id", memberHandler.Delete)
		admin.GET("/members/:id/check-ins", checkinHandler.MemberHistory)

		admin.POST("/packages", membershipHandler.Create)
		admin.GET("/packages", membershipHandler.List)
		admin.GET("/packages/:id", membershipHandler.Get)
		admin.PUT("/packages/:id", membershipHandler.Update)
		admin.PATCH("/packages/:id/status", membershipHandler.UpdateStatus)
		admin.DELETE("/packages/:id", membershipHandler.Delete)

		admin.POST("/trainers", trainerHandler.Create)
		admin.PUT("/trainers/:id", trainerHandler.Update)
		admin.DELETE("/trainers/:id", trainerHandler.Delete)

		admin.GET("/registrations", registrationHandler.List)
		admin.GET("/registrations/:id", registrationHandler.Get)
		admin.POST("/registrations/:id/approve", registrationHandler.Approve)
		admin.POST("/registrations/:id/reject", registrationHandler.Reject)
		admin.DELETE("/registrations/:id", registrationHandler.Delete)

		admin.POST("/subscriptions", subscriptionHandler.Create)
		admin.GET("/subscriptions", subscriptionHandler.List)
		admin.GET("/subscriptions/:id", subscriptionHandler.Get)
		admin.POST("/subscriptions/:id/expire", subscriptionHandler.Expire)
		admin.POST("/subscriptions/:id/cancel", subscriptionHandler.Cancel)
		admin.DELETE("/subscriptions/:id", subscriptionHandler.Delete)

		admin.POST("/trainer-subscriptions", trainerSubHandler.Create)
		admin.GET("/trainer-subscriptions", trainerSubHandler.List)
		admin.GET("/trainer-subscriptions/:id", trainerSubHandler.Get)
		admin.POST("/trainer-subscriptions/:id/expire", trainerSubHandler.Expire)
		admin.POST("/trainer-subscriptions/:id/cancel", trainerSubHandler.Cancel)
		admin.DELETE("/trainer-subscriptions/:id", trainerSubHandler.Delete)

		admin.POST("/check-ins", checkinHandler.Create)
		admin.GET("/check-ins", checkinHandler.List)

		admin.POST("/scheduler/expire-due", schedulerHandler.RunExpireDue)
		admin.POST("/scheduler/expiring-soon", schedulerHandler.RunExpiringSoon)

		admin.POST("/notifications/broadcast", notificationHandler.Broadcast)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.Static("/uploads", deps.Uploads.Dir())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.srv = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
