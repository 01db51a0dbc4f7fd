package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"solarline/solar-portal-backend/internal/auth"
	"solarline/solar-portal-backend/internal/config"
	"solarline/solar-portal-backend/internal/projects"
	"solarline/solar-portal-backend/internal/reports"
	"solarline/solar-portal-backend/internal/users"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	db := client.Database(cfg.Database.Name)
	logger.Info("Connected to database", zap.String("database", cfg.Database.Name))

	// Repositories
	userRepo, err := users.NewRepository(ctx, db)
	if err != nil {
		logger.Fatal("Failed to initialize users repository", zap.Error(err))
	}
	projectRepo, err := projects.NewRepository(ctx, db)
	if err != nil {
		logger.Fatal("Failed to initialize projects repository", zap.Error(err))
	}

	// Services and handlers
	userService := users.NewService(userRepo, cfg.Security.JWTSecret, cfg.Security.TokenTTL, logger)
	userHandler := users.NewHandler(userService, userRepo, logger)

	projectService := projects.NewService(projectRepo, logger)
	projectHandler := projects.NewHandler(projectService, logger)

	reportHandler := reports.NewHandler(projectService, logger)

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api")
	userHandler.RegisterAuthRoutes(api, cfg.Security.JWTSecret)

	protected := api.Group("")
	protected.Use(auth.RequireAuth(cfg.Security.JWTSecret))
	{
		userHandler.RegisterRoutes(protected)
		projectHandler.RegisterRoutes(protected)
		reportHandler.RegisterRoutes(protected)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"service":   "solar-portal-backend",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("Failed to disconnect from database", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
