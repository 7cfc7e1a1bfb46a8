package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gdsgames/backend/internal/auth"
	"gdsgames/backend/internal/config"
	"gdsgames/backend/internal/database"
	"gdsgames/backend/internal/handler"
	"gdsgames/backend/internal/hub"
	"gdsgames/backend/internal/router"
	"gdsgames/backend/internal/session"
	"gdsgames/backend/internal/store"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "gdsgames/backend/docs" // This is important for swag to find the generated docs
)

// @title           GDS Games API
// @version         1.0
// @description     Game catalog, personal libraries and community chat.
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apiKey SessionCookie
// @in cookie
// @name gds_session
func main() {
	logger := log.New(os.Stdout, "[gds] ", log.LstdFlags)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// Connect to the database
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	users := store.NewUserStore(db, cfg.BcryptCost)
	created, err := users.SeedAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatalf("Failed to seed admin account: %v", err)
	}
	if created {
		logger.Printf("Admin account %q created.", cfg.AdminUsername)
	}

	sessions := session.NewManager(cfg.SessionTTL, logger)
	if err := sessions.Start(cfg.SessionSweepInterval); err != nil {
		logger.Fatalf("Failed to start session sweeper: %v", err)
	}

	chatHub := hub.NewHub()
	authority := auth.NewAuthority(sessions, users, cfg.SessionSecret, cfg.CookieSecure)

	h := handler.New(handler.Deps{
		Users:   users,
		Catalog: store.NewCatalogStore(db),
		Library: store.NewLibraryStore(db),
		Chat:    store.NewChatStore(db),
		Auth:    authority,
		Hub:     chatHub,
		Log:     logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router.Setup(h, authority, router.Options{AllowedOrigins: cfg.Origins(), Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("Server is running on %s", cfg.ServerAddr)
		logger.Printf("Swagger UI is available at http://localhost%s/swagger/index.html", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Shutting down server...")

	// Open SSE streams end when the hub closes their channels.
	chatHub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}

	if err := sessions.Stop(); err != nil {
		logger.Printf("Failed to stop session sweeper: %v", err)
	}
	if err := database.Close(db); err != nil {
		logger.Printf("Failed to close database: %v", err)
	}
	logger.Println("Server exited")
}
