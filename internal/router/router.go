// Package router wires middleware and routes onto a gin engine.
package router

import (
	"log"
	"net/http"
	"time"

	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/handler"
	"gdsgames/backend/internal/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Options struct {
	AllowedOrigins []string
	Logger         *log.Logger
}

func Setup(h *handler.Handler, authority *auth.Authority, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(opts.Logger.Writer()), response.Recovery(opts.Logger))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.NoRoute(response.NotFound)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	api.Use(authority.OptionalAuthMiddleware())
	{
		// Auth routes
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)
		api.GET("/me", h.Me)

		// Game routes
		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", h.GetGames)
			gameRoutes.POST("", h.CreateGame)
			gameRoutes.GET("/:id", h.GetGameByID)
			gameRoutes.DELETE("/:id", h.DeleteGame)
			gameRoutes.POST("/:id/play", h.PlayGame)
			gameRoutes.POST("/:id/ratings", h.RateGame)
		}

		api.GET("/categories", h.GetCategories)
		api.GET("/stats", h.GetStats)

		// Library routes (protected)
		libraryRoutes := api.Group("/library")
		libraryRoutes.Use(auth.AuthMiddleware())
		{
			libraryRoutes.GET("", h.GetLibrary)
			libraryRoutes.POST("/:game_id", h.AddToLibrary)
			libraryRoutes.PUT("/:game_id", h.UpdateLibraryEntry)
			libraryRoutes.DELETE("/:game_id", h.RemoveFromLibrary)
		}

		// Owner or admin, checked per request
		api.GET("/users/:user_id/library", h.GetUserLibrary)
		api.DELETE("/users/:user_id/library/:game_id", h.RemoveFromUserLibrary)

		// Chat routes
		chatRoutes := api.Group("/chat")
		{
			chatRoutes.GET("/messages", h.GetMessages)
			chatRoutes.POST("/messages", h.PostMessage)
			chatRoutes.DELETE("/messages/:id", h.DeleteMessage)
			chatRoutes.GET("/stream", h.StreamChat)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(auth.AdminMiddleware())
		{
			adminRoutes.GET("/users", h.ListUsers)
			adminRoutes.PUT("/users/:id/admin", h.SetUserAdmin)
			adminRoutes.PUT("/users/:id/active", h.SetUserActive)
		}
	}

	return router
}
