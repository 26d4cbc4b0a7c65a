package router

import (
	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/pushreg/internal/handler"
	"github.com/quocanhngo/pushreg/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the collaborators the HTTP surface is assembled from
type Deps struct {
	Notification *handler.NotificationHandler
	Health       *handler.HealthHandler

	// RegisterLimiter guards the registration route; nil disables it
	RegisterLimiter gin.HandlerFunc

	CORSOrigins []string

	// SwaggerJSON is the on-disk path of the OpenAPI document; empty disables /swagger
	SwaggerJSON string
}

// New builds the gin engine with all routes
func New(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		router.Use(middleware.CORSMiddleware(deps.CORSOrigins))
	}

	if deps.SwaggerJSON != "" {
		// Served outside /swagger/* to avoid clashing with the wildcard route
		router.StaticFile("/docs/swagger.json", deps.SwaggerJSON)
		url := ginSwagger.URL("/docs/swagger.json")
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))
	}

	if deps.Health != nil {
		router.GET("/health", deps.Health.Check)
	}

	api := router.Group("/api")
	{
		notifications := api.Group("/notifications")
		if deps.RegisterLimiter != nil {
			notifications.POST("/register", deps.RegisterLimiter, deps.Notification.Register)
		} else {
			notifications.POST("/register", deps.Notification.Register)
		}
	}

	return router
}
