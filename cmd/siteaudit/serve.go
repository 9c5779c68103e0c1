package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegrjumin/siteaudit/internal/httpapi"
	"github.com/olegrjumin/siteaudit/internal/service"
	"github.com/olegrjumin/siteaudit/internal/session"
)

func newServeCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the audit HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
			return runServe(state, shutdownTimeout)
		},
	}
	cmd.Flags().Int("port", 8080, "HTTP server port")
	cmd.Flags().Float64("rate-limit", 2, "requests per second per client IP (0 = disabled)")
	cmd.Flags().Int("rate-burst", 5, "rate limit burst size")
	cmd.Flags().StringSlice("trusted-proxies", nil, "proxy IPs or CIDRs whose X-Forwarded-For is honored")
	cmd.Flags().String("redis-url", "", "Redis URL for sessions and events (empty = in memory)")
	cmd.Flags().Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	return cmd
}

func runServe(state *appState, shutdownTimeout time.Duration) error {
	cfg, logger := state.cfg, state.logger

	store, err := newStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	svc := service.New(newChecker(cfg), logger, store.recorder, checkerOptions(cfg))

	var auth *session.Authenticator
	if cfg.AdminPasswordHash != "" {
		auth = session.NewAuthenticator(cfg.AdminPasswordHash, store.sessions)
	} else {
		logger.Warn("Admin endpoints disabled, admin_password_hash is not set")
	}

	server := httpapi.NewServer(fmt.Sprintf(":%d", cfg.Port), httpapi.Config{
		Service:        svc,
		Logger:         logger,
		Auth:           auth,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		TrustedProxies: trusted,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		_ = server.Close()
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
