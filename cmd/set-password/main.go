package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/projectboard/internal/config"
	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/services"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: set-password <email> <new-password>")
		os.Exit(1)
	}

	email, password := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := cfg.Logger()
	profiles := services.NewProfileService(db, logger)
	auth := services.NewAuthService(db, profiles, cfg.BcryptCost, logger)
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokens := services.NewTokenService(db, jwtService)

	userID, err := auth.SetPassword(ctx, email, password)
	if err != nil {
		log.Fatalf("Failed to set password for %s: %v", email, err)
	}

	if err := tokens.RevokeAllUserTokens(ctx, userID); err != nil {
		log.Fatalf("Password changed but sessions were not revoked: %v", err)
	}

	fmt.Printf("Password changed for %s; all sessions signed out\n", email)
}
