package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/pai-tutorials/internal/assets"
	"github.com/p-n-ai/pai-tutorials/internal/assets/watch"
	"github.com/p-n-ai/pai-tutorials/internal/session"
	"github.com/p-n-ai/pai-tutorials/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tutorial site (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	loader := assets.NewLoader(src)
	categories, err := loader.Categories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	sessions := session.NewManager(session.ManagerConfig{
		Categories:   categories,
		Loader:       loader,
		AppName:      cfg.App.Name,
		AssetBaseURL: cfg.Assets.BaseURL,
		TTL:          cfg.Session.TTL,
	})

	site, err := web.NewServer(web.Config{
		Sessions:     sessions,
		Loader:       loader,
		AppName:      cfg.App.Name,
		AssetBaseURL: cfg.Assets.BaseURL,
		Health:       src,
		SecureCookie: cfg.Session.SecureCookie,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      site.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting",
			"addr", srv.Addr,
			"assets", cfg.Assets.Source,
			"categories", len(categories),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if dir, ok := src.(*assets.DirSource); ok && cfg.Assets.Watch {
		w, err := watch.New(dir.Root(),
			watch.WithOnChange(func(course string) {
				slog.Info("assets changed", "course", course)
				sessions.Reload(ctx, course)
			}),
			watch.WithOnError(func(err error) {
				slog.Warn("asset watcher error", "error", err)
			}),
		)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		return nil
	})

	return g.Wait()
}
