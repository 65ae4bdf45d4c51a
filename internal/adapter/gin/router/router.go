package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-console/api"
	"user-console/internal/adapter/gin/handler"
	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/session"
	"user-console/internal/usecase/auth"
)

// SwaggerDocPath serves the OpenAPI document used by the Swagger UI.
const SwaggerDocPath = "/openapi/console.swagger.json"

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	gate *auth.Gate,
	store session.Store,
	cookie middleware.CookieConfig,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-console",
		})
	})

	router.GET(SwaggerDocPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", api.ConsoleSwagger)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SwaggerDocPath))))

	console := router.Group("/", middleware.Session(store, cookie))
	{
		console.GET("/login", authHandler.LoginView)
		console.POST("/login", rateLimiter.Handler(), authHandler.Login)
		console.POST("/logout", authHandler.Logout)

		users := console.Group("/users", middleware.AuthGate(gate))
		{
			users.GET("", userHandler.ListUsers)
			users.POST("/next", userHandler.NextPage)
			users.POST("/previous", userHandler.PreviousPage)
			users.POST("/:id/edit", userHandler.BeginEdit)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PATCH("/draft", userHandler.ChangeDraft)
			users.POST("/draft/cancel", userHandler.CancelEdit)
			users.POST("/draft/save", userHandler.SaveDraft)
		}
	}

	// Any other route lands on the login view
	toLogin := func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, auth.LoginPath)
	}
	router.GET("/", toLogin)
	router.NoRoute(toLogin)

	return router
}
