package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/stadiumdash/internal/dependencies/clock"
	"github.com/mcoot/stadiumdash/internal/dependencies/random"
	"github.com/mcoot/stadiumdash/internal/email"
	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/services/dashboard"
	"github.com/mcoot/stadiumdash/internal/services/profile"
	"github.com/mcoot/stadiumdash/internal/storage"
	firestorestorage "github.com/mcoot/stadiumdash/internal/storage/firestore"
	"github.com/mcoot/stadiumdash/internal/storage/memory"
	redisstorage "github.com/mcoot/stadiumdash/internal/storage/redis"
	"github.com/mcoot/stadiumdash/internal/storage/seed"
)

// Storage type constants
const (
	StorageTypeMemory    = "memory"
	StorageTypeRedis     = "redis"
	StorageTypeFirestore = "firestore"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock       clock.Clock
	Random      random.Random
	EmailSender email.Sender

	// Services
	ProfileResolver  *profile.Resolver
	AuthService      *auth.Service
	DashboardService *dashboard.Service

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "firestore")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// FirestoreProjectID is the GCP project (required if StorageType is "firestore")
	FirestoreProjectID string
	// GoogleClientID enables Google sign-in when set
	GoogleClientID string
	// EmailSender delivers password reset emails (optional)
	// If nil, emails are logged and dropped
	EmailSender email.Sender
	// SeedFile is a YAML fixture loaded into storage at startup (optional)
	SeedFile string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	mailer := cfg.EmailSender
	if mailer == nil {
		mailer = email.NewNoopSender(logger)
	}

	var verifier auth.FederatedVerifier
	if cfg.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
	}

	if cfg.SeedFile != "" {
		f, err := seed.LoadFile(ctx, cfg.SeedFile, store, clk.Now())
		if err != nil {
			if closer != nil {
				_ = closer.Close()
			}
			return nil, fmt.Errorf("seed: %w", err)
		}
		logger.Info("seed loaded",
			slog.String("file", cfg.SeedFile),
			slog.Int("stadiums", len(f.Stadiums)),
			slog.Int("managers", len(f.Managers)),
			slog.Int("accounts", len(f.Accounts)),
		)
	}

	app := newWithDependencies(store, clk, rnd, mailer, verifier, cfg.AuthConfig, logger)
	app.closer = closer
	return app, nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(ctx, *cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, redisStore, nil
	case StorageTypeFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, nil, errors.New("FirestoreProjectID required when StorageType is firestore")
		}
		fsStore, err := firestorestorage.New(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, err
		}
		return fsStore, fsStore, nil
	default:
		return nil, nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'firestore'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	mailer email.Sender,
	verifier auth.FederatedVerifier,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	profileResolver := profile.New(store, logger)
	authService := auth.New(auth.Deps{
		Store:    store,
		Profiles: profileResolver,
		Verifier: verifier,
		Mailer:   mailer,
		Clock:    clk,
		Random:   rnd,
		Logger:   logger,
	}, authCfg)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		EmailSender:      mailer,
		ProfileResolver:  profileResolver,
		AuthService:      authService,
		DashboardService: dashboard.New(),
	}
}

// Close releases storage connections
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
