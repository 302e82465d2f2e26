package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	adapthttp "calories/internal/adapter/http"
	"calories/internal/app"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	st, err := openStores(c.cfg, c.log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	tracker := app.NewTracker(st.kv, c.log)
	tracker.Hydrate(ctx)

	authSvc := app.NewAuthService(st.sessions, app.AuthConfig{
		PasswordHash: c.cfg.OwnerPasswordHash,
		SSOEnabled:   c.cfg.OIDC.Enabled(),
		SSOSubject:   c.cfg.OIDC.Subject,
		SessionTTL:   c.cfg.SessionTTL,
	})

	srv := adapthttp.New(tracker, authSvc, c.cfg.WebDir).
		WithLogger(c.log).
		WithUnit(c.cfg.EnergyUnit)

	if c.cfg.OIDC.Enabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, c.cfg.OIDC.Issuer, c.cfg.OIDC.ClientID, c.cfg.OIDC.ClientSecret, c.cfg.OIDC.RedirectURL)
		if err != nil {
			return err
		}
		srv = srv.WithOIDC(oidcCfg)
	}
	if !authSvc.Enabled() {
		c.log.Warn("no OWNER_PASSWORD_HASH or OIDC settings; the API is unauthenticated")
	}

	go pruneSessions(ctx, c, authSvc)

	server := &http.Server{
		Addr:         c.cfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.log.Info("listening", "addr", c.cfg.Addr, "backend", c.cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		c.log.Error("graceful shutdown failed", "error", err)
		return err
	}
	c.log.Info("server stopped")
	return nil
}

func pruneSessions(ctx context.Context, c *cli, authSvc *app.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authSvc.PruneSessions(ctx); err != nil {
				c.log.Warn("prune sessions", "error", err)
			}
		}
	}
}
