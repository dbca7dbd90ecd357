package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/Marvellousz/Minimal/internal/router"
	"github.com/Marvellousz/Minimal/internal/validators"
	"github.com/Marvellousz/Minimal/pkg/config"
	"github.com/Marvellousz/Minimal/pkg/firebase"
)

func main() {
	// Load configuration
	config.LoadEnv()
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Initialize Firebase when credentials are configured; the server
	// runs without it and simply skips the social-login route.
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("Firebase credentials not configured, social login disabled.")
	}

	// Create Echo instance
	e := echo.New()
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseAuthClient, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
