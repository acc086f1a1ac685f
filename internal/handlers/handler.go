package handlers

import (
	"vedic_counter/internal/logger"
	"vedic_counter/internal/metrics"
	"vedic_counter/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if h.metrics != nil {
		router.Use(h.requestMetrics)
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware)
	{
		api.GET("/me", h.me)
		h.registerCounterRoutes(api)
		h.registerTimerRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerCounterRoutes(api *gin.RouterGroup) {
	counter := api.Group("/counter")
	{
		counter.GET("/state", h.getState)
		counter.POST("/increment", h.increment)
		counter.POST("/decrement", h.decrement)
		// Body example: {"starting_number":"50"}
		counter.POST("/start", h.setStartingNumber)
		// Body example: {"confirm":true}
		counter.POST("/reset", h.reset)
	}
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timer := api.Group("/timer")
	{
		timer.POST("/pause", h.pauseTimer)
		timer.POST("/resume", h.resumeTimer)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
