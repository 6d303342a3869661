package handlers

import (
	"net/http"
	"time"

	"bomberquiz/internal/logger"
	"bomberquiz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultCookieName = "bomberquiz_token"
	defaultLoginRate  = 1
	defaultLoginBurst = 3
)

// Options tunes the HTTP layer. Zero values fall back to defaults.
type Options struct {
	CookieName   string
	CookieSecure bool
	LoginRate    float64 // login attempts per second per client IP
	LoginBurst   int
	Registry     *prometheus.Registry
	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is honoured.
	// Empty means the client IP is always the connection's remote address.
	TrustedProxies []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	metrics  *httpMetrics
	limiter  *ipRateLimiter
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = defaultLoginRate
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = defaultLoginBurst
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	return &Handler{
		services: services,
		log:      log,
		opts:     opts,
		metrics:  newHTTPMetrics(opts.Registry),
		limiter:  newIPRateLimiter(opts.LoginRate, opts.LoginBurst, 3*time.Minute),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(h.opts.TrustedProxies); err != nil {
		if h.log != nil {
			h.log.Errorw("trusted_proxies_invalid", "proxies", h.opts.TrustedProxies, "err", err)
		}
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), h.requestID, h.metrics.middleware, h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.opts.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	h.registerAuthRoutes(api)

	protected := api.Group("", h.authMiddleware)
	{
		h.registerMilitaryRankRoutes(protected)

		admin := protected.Group("", h.requireAdmin)
		h.registerUserRoutes(admin)
		h.registerAuditRoutes(admin)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/login", h.limiter.middleware, h.login)
		auth.POST("/logout", h.authMiddleware, h.logout)
		auth.GET("/me", h.authMiddleware, h.me)
		auth.PUT("/password", h.authMiddleware, h.changePassword)
	}
}

func (h *Handler) registerUserRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	{
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
	}
}

func (h *Handler) registerMilitaryRankRoutes(protected *gin.RouterGroup) {
	ranks := protected.Group("/military-ranks")
	{
		ranks.GET("", h.listMilitaryRanks)
		ranks.GET("/:id", h.getMilitaryRank)
		ranks.POST("", h.requireAdmin, h.createMilitaryRank)
		ranks.PUT("/:id", h.requireAdmin, h.updateMilitaryRank)
		ranks.DELETE("/:id", h.requireAdmin, h.deleteMilitaryRank)
	}
}

func (h *Handler) registerAuditRoutes(admin *gin.RouterGroup) {
	audit := admin.Group("/audit-logs")
	{
		audit.GET("", h.getAuditLogs)
		audit.GET("/stream", h.streamAuditLogs)
	}
}

// @Summary  Health check
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
