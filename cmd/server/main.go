package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okanele/peoplebook/internal/auth"
	"github.com/okanele/peoplebook/internal/config"
	"github.com/okanele/peoplebook/internal/metrics"
	"github.com/okanele/peoplebook/internal/models"
	"github.com/okanele/peoplebook/internal/server"
	"github.com/okanele/peoplebook/internal/storage"
	"github.com/okanele/peoplebook/internal/storage/postgres"
	"github.com/okanele/peoplebook/internal/storage/sqlite"
	"github.com/okanele/peoplebook/pkg/logging"
)

// Default admin credentials seeded when the users table is empty.
const (
	seedUsername = "admin"
	seedPassword = "admin123"
)

const (
	readHeaderTimeout = 1 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	logging.Setup()
	logger := slog.Default()

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("storage initialized", "backend", backendName(cfg))

	if err := seedAdmin(ctx, store, logger); err != nil {
		return err
	}

	sessions := auth.NewSessionStore(cfg.SessionTTL)
	defer sessions.Close()

	srv := server.New(logger, store, sessions, cfg.UploadDir, metrics.New())
	srv.Server.ReadHeaderTimeout = readHeaderTimeout

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	logger.Info("server starting", "address", cfg.Addr)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		err := srv.Server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Server.Shutdown(shutdownCtx)
	})
	return grp.Wait()
}

// openStore selects the storage backend from configuration: a non-empty
// PostgreSQL DSN picks the networked variant, otherwise the embedded SQLite
// file is used. Both run their migrations on open.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.DatabaseDSN != "" {
		return postgres.New(ctx, cfg.DatabaseDSN)
	}
	return sqlite.New(ctx, cfg.SQLitePath)
}

func backendName(cfg *config.Config) string {
	if cfg.DatabaseDSN != "" {
		return "postgres"
	}
	return "sqlite"
}

// seedAdmin creates the default account at first startup if no users exist.
func seedAdmin(ctx context.Context, store storage.Store, logger *slog.Logger) error {
	n, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}
	if err := store.CreateUser(ctx, &models.User{Username: seedUsername, PasswordHash: hash}); err != nil {
		return err
	}
	logger.Info("seeded default admin user", "username", seedUsername)
	return nil
}
