package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lifepath/components/lifepath"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction widget over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", a.cfg.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
			}
			return a.serve(cmd.Context(), ln)
		},
	}
	defaults := a.cfg
	cmd.Flags().String("addr", defaults.Addr, "listen address")
	cmd.Flags().String("base-path", defaults.BasePath, "path prefix for every route")
	cmd.Flags().String("theme", defaults.Theme, "page theme name")
	cmd.Flags().String("variant", defaults.Variant, "page theme variant")
	cmd.Flags().String("theme-file", defaults.ThemeFile, "go-theme manifest (YAML or JSON) registered next to the built-in theme")
	return cmd
}

// serve runs the widget on ln until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	handler, routes, err := a.handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(a.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	a.logger.Info("serving lifepath widget",
		zap.String("addr", ln.Addr().String()),
		zap.String("page", routes.Page),
		zap.String("api", routes.API),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (a *app) handler() (http.Handler, lifepath.Routes, error) {
	provider, err := a.provider()
	if err != nil {
		return nil, lifepath.Routes{}, err
	}

	opts := []lifepath.OptionFn{
		lifepath.WithDescriber(provider),
		lifepath.WithTheme(a.cfg.Theme, a.cfg.Variant),
		lifepath.WithLogger(a.logger),
	}
	if a.cfg.ThemeFile != "" {
		manifest, err := loadThemeManifest(a.cfg.ThemeFile)
		if err != nil {
			return nil, lifepath.Routes{}, err
		}
		a.logger.Debug("theme manifest loaded",
			zap.String("file", a.cfg.ThemeFile),
			zap.String("theme", manifest.Name),
		)
		opts = append(opts, lifepath.WithThemeManifests(manifest))
	}

	mux := http.NewServeMux()
	routes, err := lifepath.RegisterRoutes(mux, a.cfg.BasePath, opts...)
	if err != nil {
		return nil, lifepath.Routes{}, err
	}
	return mux, routes, nil
}

func loadThemeManifest(path string) (*theme.Manifest, error) {
	manifest, err := theme.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load theme %s: %w", path, err)
	}
	return manifest, nil
}
