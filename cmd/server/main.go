package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/notes/api/internal/config"
	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/handler"
	"github.com/forgo/notes/api/internal/jobs"
	"github.com/forgo/notes/api/internal/metrics"
	"github.com/forgo/notes/api/internal/middleware"
	"github.com/forgo/notes/api/internal/repository"
	"github.com/forgo/notes/api/internal/service"
	"github.com/forgo/notes/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		level.Set(slog.LevelDebug)
	}

	collector := metrics.NewCollector("notes")

	// Initialize database connection
	conn := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := conn.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if err := database.ApplySchema(ctx, conn); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var db database.Database = conn
	if b := cfg.Database.Breaker; b.Enabled {
		db = database.NewBreaker(db, database.BreakerConfig{
			Name:             "surrealdb",
			MaxRequests:      b.MaxRequests,
			Interval:         b.Interval,
			Timeout:          b.Timeout,
			FailureThreshold: b.FailureRatio,
			MinRequests:      b.MinRequests,
		})
	}
	db = database.NewInstrumented(db, collector)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Initialize services
	noteQueries := service.NewNoteQueryService(service.NoteQueryServiceConfig{
		NoteRepo: noteRepo,
		UserRepo: userRepo,
	})
	noteMutations := service.NewNoteMutationService(service.NoteMutationServiceConfig{
		NoteRepo: noteRepo,
		UserRepo: userRepo,
	})
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo: userRepo,
		NoteRepo: noteRepo,
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})

	if interval := cfg.Jobs.OrphanAuditInterval; interval > 0 {
		audit := jobs.NewOrphanAudit(noteRepo, collector, interval)
		audit.Start()
		defer audit.Stop()
	}

	loginLimiter := middleware.NewLoginLimiter(middleware.LoginLimiterConfig{
		Attempts: cfg.LoginLimit.Attempts,
		Window:   cfg.LoginLimit.Window,
		Observer: collector,
	})
	defer loginLimiter.Stop()

	var tokens middleware.TokenValidator
	if cfg.Auth.Enabled {
		tokens = jwtService
	} else {
		slog.Warn("access verification disabled; /notes and /users are open")
	}

	router := newRouter(routerDeps{
		Notes: handler.NewNoteHandler(handler.NoteHandlerConfig{
			Queries:   noteQueries,
			Mutations: noteMutations,
		}),
		Users: handler.NewUserHandler(userService),
		Auth: handler.NewAuthHandler(handler.AuthHandlerConfig{
			Auth:         authService,
			CookieSecure: cfg.Auth.CookieSecure,
			RefreshTTL:   jwtService.RefreshTTL(),
		}),
		Health:         handler.NewHealthHandler(conn, 2*time.Second),
		Metrics:        collector,
		Limiter:        loginLimiter,
		Tokens:         tokens,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
