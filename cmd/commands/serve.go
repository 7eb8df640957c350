package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncobase/keyset/config"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand(configPath *string) *cobra.Command {
	var (
		seed  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Serve paginated records over HTTP",
		Long: `Serve paginated records over HTTP.

Routes:
  GET /api/v1/records             pages by identity
  GET /api/v1/records/by-field    pages by a sort field
  GET /api/v1/records/connection  first/after and last/before pages
  GET /healthz                    data layer health
  GET /metrics                    prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, seed, watch)
		},
	}
	cmd.Flags().IntVar(&seed, "seed", 0, "insert this many sample records before serving")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the logger level when the config file changes")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, seed int, watch bool) error {
	cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer cleanupLogger()
	info := version.GetVersionInfo()
	logger.SetVersion(info.Version)

	a, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if seed > 0 {
		if err := seedRecords(ctx, a.data, seedOptions{Count: seed}); err != nil {
			return err
		}
	}
	if watch {
		config.Watch(cfg, func(next *config.Config) {
			if next.Logger != nil && next.Logger.Level > 0 {
				logger.StdLogger().SetLevel(logrus.Level(next.Logger.Level))
			}
		})
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "%s %s listening on %s (driver %s)", cfg.AppName, info.Version, a.server.Addr, cfg.Data.Driver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
