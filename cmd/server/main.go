package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/mcoot/stadiumdash/internal/api"
	"github.com/mcoot/stadiumdash/internal/email"
	"github.com/mcoot/stadiumdash/internal/factory"
	"github.com/mcoot/stadiumdash/internal/services/auth"
	redisstorage "github.com/mcoot/stadiumdash/internal/storage/redis"
	"github.com/mcoot/stadiumdash/internal/web"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		serverConfig.Port = p
	}

	publicURL := strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%d", serverConfig.Port)
	}
	secure := strings.HasPrefix(publicURL, "https://")

	authCfg := auth.DefaultConfig()
	authCfg.ResetURL = publicURL + "/auth/reset/confirm"

	// Build factory config from environment
	cfg := factory.Config{
		AuthConfig:         authCfg,
		Logger:             logger,
		StorageType:        os.Getenv("STORAGE_TYPE"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		SeedFile:           os.Getenv("SEED_FILE"),
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		from := os.Getenv("EMAIL_FROM")
		if from == "" {
			return fmt.Errorf("EMAIL_FROM required when RESEND_API_KEY is set")
		}
		cfg.EmailSender = email.NewResendSender(apiKey, from, logger)
	} else {
		logger.Warn("RESEND_API_KEY not set, password reset emails will only be logged")
	}

	csrfKey, err := loadCSRFKey(os.Getenv("CSRF_KEY"))
	if err != nil {
		return err
	}
	if os.Getenv("CSRF_KEY") == "" {
		logger.Warn("CSRF_KEY not set, using a per-process key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() { _ = app.Close() }()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		DashboardService: app.DashboardService,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		DashboardService: app.DashboardService,
		StaticDir:        findStaticDir(),
		CSRFKey:          csrfKey,
		TrustedOrigins:   trustedOrigins(publicURL),
		SecureCookies:    secure,
		GoogleClientID:   cfg.GoogleClientID,
		PublicURL:        publicURL,
		SessionDuration:  authCfg.SessionDuration,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := api.NewServer(mux, serverConfig, logger)

	go app.AuthService.RunJanitor(ctx, clockwork.NewRealClock(), sessionSweepInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("public_url", publicURL),
		slog.Bool("google_sign_in", app.AuthService.FederatedEnabled()),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// loadCSRFKey returns the configured 32-byte key, or a random one when unset
func loadCSRFKey(raw string) ([]byte, error) {
	if raw == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		return key, nil
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(raw))
	}
	return []byte(raw), nil
}

// trustedOrigins lists the host of the public URL for the CSRF origin check
func trustedOrigins(publicURL string) []string {
	host := publicURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host, _, _ = strings.Cut(host, "/")
	if host == "" {
		return nil
	}
	return []string{host}
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		os.Getenv("STATIC_DIR"),
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return "internal/web/static"
}
