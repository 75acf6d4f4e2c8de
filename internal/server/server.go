package server

import (
	"context"
	"net/http"

	"imagestyle/internal/cache"
	"imagestyle/internal/config"
	"imagestyle/internal/domain"
	"imagestyle/internal/middleware"
	"imagestyle/internal/modules/appointments"
	"imagestyle/internal/modules/auth"
	"imagestyle/internal/modules/clients"
	"imagestyle/internal/modules/earnings"
	"imagestyle/internal/modules/live"
	"imagestyle/internal/pkg/jwt"
	"imagestyle/internal/pkg/metrics"
	"imagestyle/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-level collaborators the router is built from.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Metrics
	// Cache backs earnings summaries; nil means an in-memory store.
	Cache cache.Store
}

// Server owns the router and the long-lived pieces that need closing.
type Server struct {
	Router *gin.Engine
	Hub    *live.Hub
}

func New(d Deps) *Server {
	cfg := d.Config
	if d.Metrics == nil {
		d.Metrics = metrics.New("imagestyle")
	}
	if d.Cache == nil {
		d.Cache = cache.NewMemoryStore(cfg.EarningsCacheTTL)
	}

	userRepo := repository.NewUserRepository(d.DB)
	clientRepo := repository.NewClientRepository(d.DB)
	appointmentRepo := repository.NewAppointmentRepository(d.DB)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := live.NewHub(d.Metrics.LiveConnections)
	earningsService := earnings.NewService(appointmentRepo, d.Cache, d.Metrics.EarningsCache)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens), d.Log)
	clientHandler := clients.NewHandler(clients.NewService(clientRepo))
	appointmentService := appointments.NewService(
		appointmentRepo,
		clientRepo,
		userRepo,
		appointments.SlotConfig{
			OpenHour:    cfg.OpenHour,
			CloseHour:   cfg.CloseHour,
			StepMinutes: cfg.StepMinutes,
		},
		earningsService,
		hub,
		bookingCounter{m: d.Metrics},
	)
	appointmentHandler := appointments.NewHandler(appointmentService)
	earningsHandler := earnings.NewHandler(earningsService)
	liveHandler := live.NewHandler(hub, tokens, cfg.CORSAllowedOrigins, d.Log)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.ErrorLogger(d.Log),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Metrics(d.Metrics),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	loginLimiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.LoginRatePerMinute, cfg.LoginBurst))

	root := r.Group("")
	authHandler.RegisterPublicRoutes(root, loginLimiter.RateLimit())
	liveHandler.RegisterRoutes(root)

	protected := r.Group("")
	protected.Use(middleware.JWTAuth(tokens), middleware.RequireRole(string(domain.RoleOwner), string(domain.RoleStaff)))
	{
		authHandler.RegisterProtectedRoutes(protected)
		clientHandler.RegisterRoutes(protected)
		appointmentHandler.RegisterRoutes(protected)
		earningsHandler.RegisterRoutes(protected)
	}

	return &Server{Router: r, Hub: hub}
}

// bookingCounter counts stored appointments.
type bookingCounter struct {
	m *metrics.Metrics
}

func (b bookingCounter) AppointmentCreated(context.Context, domain.Appointment) {
	b.m.AppointmentsCreated.Inc()
}
