package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mkerrall/waypost/internal/handler"
	"github.com/mkerrall/waypost/internal/repository/sqlite"
	"github.com/mkerrall/waypost/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "waypost.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if len(jwtSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}

	// Default to secure cookies; disable only for local development.
	cookieSecure := os.Getenv("COOKIE_SECURE") != "false"

	bcryptCost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid BCRYPT_COST", "error", err)
			os.Exit(1)
		}
		if parsed < 4 || parsed > 14 {
			slog.Error("BCRYPT_COST must be between 4 and 14", "value", parsed)
			os.Exit(1)
		}
		bcryptCost = parsed
	}

	sessionTTL := 168 * time.Hour
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			slog.Error("invalid SESSION_TTL_HOURS", "value", v)
			os.Exit(1)
		}
		sessionTTL = time.Duration(parsed) * time.Hour
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	hasher := service.NewBcryptHasher(bcryptCost)
	emailBackend, err := service.NewEmailBackend(db.Users(), hasher)
	if err != nil {
		slog.Error("failed to initialize email backend", "error", err)
		os.Exit(1)
	}
	pipeline := service.NewPipeline(emailBackend)
	accounts := service.NewAccountService(db.Users(), hasher)
	sessions := service.NewSessionService(db.Sessions(), db.Users(), sessionTTL)
	tokens := service.NewTokenService(jwtSecret, 24*time.Hour)

	// Roughly one attempt per 5 seconds per client, bursting to 5.
	limiter := service.NewLoginLimiter(0.2, 5)

	if n, err := sessions.PurgeExpired(context.Background()); err != nil {
		slog.Error("failed to purge expired sessions", "error", err)
	} else if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, pipeline, accounts, sessions, tokens, db.Users(), limiter, cookieSecure)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
