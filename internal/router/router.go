package router

import (
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/Marvellousz/Minimal/internal/handlers"
	"github.com/Marvellousz/Minimal/internal/middleware"
	"github.com/Marvellousz/Minimal/internal/models"
	"github.com/Marvellousz/Minimal/internal/repositories"
	"github.com/Marvellousz/Minimal/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, cfg *config.Config) {
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.IsDevelopment())

	// Health check - always accessible
	e.GET("/api/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Minimal Blog API",
			"status":  "Server is running",
			"endpoints": echo.Map{
				"health": "/api/health",
				"auth":   "/api/auth",
				"posts":  "/api/posts",
			},
		})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDB))

	requireAuth := middleware.JWTAuth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalJWTAuth(cfg.JWTSecret)

	// Auth routes
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"), requireAuth)
	log.Println("Auth routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(e.Group("/api/posts"), optionalAuth, requireAuth)
	log.Println("Post routes configured.")

	log.Println("All routes configured.")
}
