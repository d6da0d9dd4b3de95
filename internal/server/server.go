// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/config"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/database"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/handlers"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/i18n"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/repository"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/fhir"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/hospital"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/passport"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/portal"
	"gitlab.com/iii-api-platform/hospital-gateway/internal/services/vaccine"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	e := New(cfg, repository.New(db))

	return startWithGracefulShutdown(ctx, e, cfg)
}

// New wires services, middleware and routes into an Echo instance.
func New(cfg *config.Config, repo *repository.Repository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	fhirClient := &http.Client{Timeout: cfg.FHIR.Timeout}
	lifecycle := passport.NewLifecycle(repo, passport.WithWindow(cfg.Passport.TokenWindow))

	h := handlers.New(handlers.Services{
		Passport:  passport.NewService(lifecycle, passport.NewQRIssuer(passport.NewPNGEncoder(cfg.Passport.QRSize))),
		FHIR:      fhir.NewGateway(repo, fhirClient),
		Vaccine:   vaccine.NewService(repo),
		Portal:    portal.NewClient(cfg.Portal.URL, cfg.Portal.CredentialsFile, nil),
		Hospitals: hospital.NewDirectory(cfg.Hospital.CSVPath),
		BaseURL:   cfg.Server.BaseURL,
	})

	setupMiddleware(e, cfg)
	setupRoutes(e, h)

	return e
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	errChan := make(chan error, 1)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL, "tls", tlsResult.Mode)
		var serveErr error
		if tlsResult.Mode == TLSModeOff {
			serveErr = e.Start(addr)
		} else {
			serveErr = startTLSServer(e, addr, tlsResult.TLSConfig)
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.TLSServer.Serve(e.TLSListener)
}
