package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/projectboard/internal/config"
	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/handlers"
	authmw "github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokenService := services.NewTokenService(db, jwtService)
	profileService := services.NewProfileService(db, logger)
	authService := services.NewAuthService(db, profileService, cfg.BcryptCost, logger)
	projectService := services.NewProjectService(db, logger)
	teamService := services.NewTeamService(db, logger)
	taskService := services.NewTaskService(db, logger)

	authHandler := handlers.NewAuthHandler(authService, tokenService, logger)
	userHandler := handlers.NewUserHandler(profileService, logger)
	projectHandler := handlers.NewProjectHandler(projectService, logger)
	teamHandler := handlers.NewTeamHandler(teamService, projectService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, logger)
	docsHandler := handlers.NewDocsHandler(services.NewAPIDocService(cfg.Version))

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(logger))

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/projects", projectHandler.List)
	protected.Post("/projects", projectHandler.Create)
	protected.Get("/projects/:projectId", projectHandler.Get)
	protected.Patch("/projects/:projectId", projectHandler.Update)

	protected.Get("/projects/:projectId/members", teamHandler.ListMembers)
	protected.Post("/projects/:projectId/members", teamHandler.AddMember)
	protected.Patch("/projects/:projectId/members/:memberId", teamHandler.ChangeRole)
	protected.Delete("/projects/:projectId/members/:memberId", teamHandler.RemoveMember)

	protected.Get("/projects/:projectId/tasks", taskHandler.Board)
	protected.Post("/projects/:projectId/tasks", taskHandler.Create)
	protected.Patch("/projects/:projectId/tasks/:taskId", taskHandler.Update)
	protected.Delete("/projects/:projectId/tasks/:taskId", taskHandler.Delete)
	protected.Patch("/projects/:projectId/tasks/:taskId/status", taskHandler.Move)

	api.Get("/openapi.json", docsHandler.OpenAPI)
	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go cleanupTokens(cleanupCtx, tokenService, cfg.TokenCleanupInterval, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
}

func cleanupTokens(ctx context.Context, tokens *services.TokenService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanupExpired(ctx)
			if err != nil {
				logger.Warn("refresh token cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Debug("expired refresh tokens removed", slog.Int64("count", removed))
			}
		}
	}
}
