package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dentalbright/booking-api/internal/middleware"
	"github.com/dentalbright/booking-api/internal/service/auth"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type ProtectedHandler interface {
	Handler
	RegisterProtectedRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORS           middleware.CORSConfig
}

type Router struct {
	engine       *gin.Engine
	authService  *auth.Service
	healthH      Handler
	authH        Handler
	dentistH     Handler
	appointmentH ProtectedHandler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	authService *auth.Service,
	healthH Handler,
	authH Handler,
	dentistH Handler,
	appointmentH ProtectedHandler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterValidators()

	engine := gin.New()

	r := &Router{
		engine:       engine,
		authService:  authService,
		healthH:      healthH,
		authH:        authH,
		dentistH:     dentistH,
		appointmentH: appointmentH,
		metrics:      newRouterMetrics(),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORS))

	rateLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	// Probes and metrics live at the root so orchestration never depends
	// on the API prefix.
	root := r.engine.Group("")
	r.healthH.RegisterRoutes(root)
	root.GET("/health/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	r.authH.RegisterRoutes(api)

	// Public booking surface: dentist directory, availability, appointment
	// creation and changes.
	r.dentistH.RegisterRoutes(api)
	r.appointmentH.RegisterRoutes(api)

	// Dashboard routes require a dentist session.
	protected := api.Group("")
	protected.Use(middleware.Auth(r.authService))
	r.appointmentH.RegisterProtectedRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		r.metrics.requestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(method, path, status).Inc()
		}
	}
}
