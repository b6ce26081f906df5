package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"homewatch/internal/logger"
	"homewatch/internal/service"
)

type Handler struct {
	services *service.Service
	log      *logger.Logger
}

func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}

	api := router.Group("/api/v1", h.authMiddleware)
	{
		api.GET("/solar/status", h.getSolarStatus)
		api.GET("/sensors", h.getSensors)
		api.GET("/stove", h.getStove)
		api.GET("/weather", h.getWeather)
		api.GET("/laundry", h.getLaundryAdvice)
		api.GET("/dashboard", h.getDashboard)
		api.GET("/readings", h.getReadings)

		gas := api.Group("/gas")
		{
			gas.GET("", h.listGasBottles)
			gas.POST("", h.addGasBottle)
			gas.POST("/swap", h.swapGasBottle)
			gas.PUT("/:id", h.updateGasLevel)
			gas.DELETE("/:id", h.deleteGasBottle)
		}

		api.GET("/ws", h.serveWs)
	}

	return router
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

// errorResponse mirrors the JSON body returned for all failed requests.
type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) logAndJSONError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		h.log.Errorw(message, "error", err)
	} else {
		h.log.Errorw(message)
	}
	c.AbortWithStatusJSON(status, errorResponse{Message: message})
}
