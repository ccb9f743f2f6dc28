// Package main provides the entry point for the session-vault server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/txn2/session-vault/internal/server"
	"github.com/txn2/session-vault/pkg/audit"
	auditpostgres "github.com/txn2/session-vault/pkg/audit/postgres"
	blobs3 "github.com/txn2/session-vault/pkg/blob/s3"
	"github.com/txn2/session-vault/pkg/auth"
	"github.com/txn2/session-vault/pkg/config"
	"github.com/txn2/session-vault/pkg/database"
	"github.com/txn2/session-vault/pkg/database/migrate"
	"github.com/txn2/session-vault/pkg/health"
	"github.com/txn2/session-vault/pkg/session"
	sessionpostgres "github.com/txn2/session-vault/pkg/session/postgres"
)

const (
	shutdownTimeout      = 10 * time.Second
	auditCleanupInterval = time.Hour
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.address, "address", "", "Override the configured listen address")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("session-vault version %s\n", server.Version)
		return nil
	}
	if opts.configPath == "" {
		return fmt.Errorf("a config file is required (-config)")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrate.Run(db); err != nil {
		return err
	}

	blobs, err := blobs3.NewFromConfig(ctx, blobs3.Config{
		Region:       cfg.Storage.S3.Region,
		Endpoint:     cfg.Storage.S3.Endpoint,
		Bucket:       cfg.Storage.S3.Bucket,
		AccessKeyID:  cfg.Storage.S3.AccessKeyID,
		SecretKey:    cfg.Storage.S3.SecretKey,
		UsePathStyle: cfg.Storage.S3.UsePathStyle,
	})
	if err != nil {
		return err
	}

	limits := cfg.SessionLimits()
	ledger := sessionpostgres.New(db, sessionpostgres.Config{
		MaxSessionCount: limits.MaxSessionCount,
	})
	store, err := session.NewStore(ledger, blobs, limits)
	if err != nil {
		return err
	}

	signingKey, err := cfg.SigningKey()
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokens(auth.TokensConfig{
		SigningKey: signingKey,
		TTL:        cfg.Auth.TokenTTL,
	})
	if err != nil {
		return err
	}
	bots := auth.NewTelegramVerifier(auth.TelegramConfig{
		BaseURL: cfg.Auth.TelegramAPI,
	})

	auditLogger := audit.Logger(audit.NewNoopLogger())
	if cfg.Audit.Enabled {
		auditStore := auditpostgres.New(db, auditpostgres.Config{
			RetentionDays: cfg.Audit.RetentionDays,
		})
		auditStore.StartCleanupRoutine(auditCleanupInterval)
		auditLogger = auditStore
	}
	defer func() { _ = auditLogger.Close() }()

	checker := health.NewChecker()
	api, err := server.New(server.Config{
		Store:   store,
		Tokens:  tokens,
		Bots:    bots,
		Audit:   auditLogger,
		Checker: checker,
	})
	if err != nil {
		return err
	}

	return serve(ctx, cfg, api.Handler(), checker)
}

func serve(ctx context.Context, cfg *config.Config, handler http.Handler, checker *health.Checker) error {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("session-vault listening", "address", cfg.Server.Address, "version", server.Version)
		if cfg.Server.TLS.Enabled {
			errCh <- srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()
	checker.SetReady()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	checker.SetDraining()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
