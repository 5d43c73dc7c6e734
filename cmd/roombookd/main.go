package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/config"
	httptransport "github.com/example/room-booking/internal/http"
	"github.com/example/room-booking/internal/identity"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/memory"
	"github.com/example/room-booking/internal/persistence/sqlite"
)

func main() {
	// Absent .env files are fine; the environment wins either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	registry := memory.Open()

	now := time.Now
	idGenerator := uuid.NewString
	// Booking identifiers are time-ordered so the ledger sorts naturally.
	bookingIDGenerator := func() string {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}

	provider := identity.NewProvider(identity.Config{
		Credentials: sqlite.NewCredentialRepository(storage),
		Secret:      cfg.TokenSecret,
		TokenTTL:    cfg.TokenTTL,
		IDGenerator: idGenerator,
		Now:         now,
		Logger:      logger,
	})

	profiles := newProfileStoreAdapter(sqlite.NewProfileRepository(storage), now)
	slot := sqlite.NewSlotRepository(storage)

	sessionService := application.NewSessionServiceWithLogger(provider, profiles, slot, logger)
	roomService := application.NewRoomServiceWithLogger(registry, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(registry, registry, bookingIDGenerator, now, logger)

	sessionService.Restore(ctx)
	if err := sessionService.Start(ctx); err != nil {
		logger.Error("failed to start session service", "error", err)
		os.Exit(1)
	}
	defer sessionService.Stop()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     httptransport.NewAuthHandler(sessionService, logger),
		Rooms:    httptransport.NewRoomHandler(roomService, logger),
		Bookings: httptransport.NewBookingHandler(bookingService, logger),
	})

	authLimited := httptransport.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst, logger)(router)
	protected := httptransport.RequireIdentity(provider, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.EqualFold(r.URL.Path, "/login"), strings.EqualFold(r.URL.Path, "/register"):
			authLimited.ServeHTTP(w, r)
		case strings.EqualFold(r.URL.Path, "/session"):
			router.ServeHTTP(w, r)
		default:
			protected.ServeHTTP(w, r)
		}
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type profileStoreAdapter struct {
	repo persistence.ProfileRepository
	now  func() time.Time
}

func newProfileStoreAdapter(repo persistence.ProfileRepository, now func() time.Time) *profileStoreAdapter {
	if now == nil {
		now = time.Now
	}
	return &profileStoreAdapter{repo: repo, now: now}
}

func (a *profileStoreAdapter) WriteProfile(ctx context.Context, uid string, record application.ProfileRecord) error {
	stamp := a.now()
	return a.repo.WriteProfile(ctx, persistence.Profile{
		UID:         uid,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		Role:        string(record.Role),
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	})
}

func (a *profileStoreAdapter) ReadProfile(ctx context.Context, uid string) (application.ProfileRecord, error) {
	stored, err := a.repo.ReadProfile(ctx, uid)
	if err != nil {
		return application.ProfileRecord{}, err
	}
	return application.ProfileRecord{
		UID:         stored.UID,
		Email:       stored.Email,
		DisplayName: stored.DisplayName,
		Role:        application.NormalizeRole(stored.Role),
	}, nil
}
