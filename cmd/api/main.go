package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/gtfs-tools/transitaccess/internal/app"
	"github.com/gtfs-tools/transitaccess/internal/appconf"
	"github.com/gtfs-tools/transitaccess/internal/gtfs"
	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/restapi"
	"github.com/gtfs-tools/transitaccess/internal/schedule"
	"github.com/gtfs-tools/transitaccess/internal/webui"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewLogger(os.Stdout, cfg.LogFormat, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		if schedule.IsConfigurationError(err) {
			logging.LogError(logger, "schedule configuration error", err)
		} else {
			logging.LogError(logger, "server stopped", err)
		}
		os.Exit(1)
	}
}

// run loads the schedule, serves the API until ctx is cancelled, then drains
// in-flight requests.
func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	gtfsConfig := gtfs.NewConfigFromApp(cfg, logger)
	gtfsManager, err := gtfs.InitGTFSManager(ctx, gtfsConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize GTFS manager: %w", err)
	}
	defer gtfsManager.Shutdown()

	application := &app.Application{
		Config:      cfg,
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: gtfsManager,
	}

	api := restapi.NewRestAPI(application)
	defer api.Close()

	var extra []func(*httprouter.Router)
	if cfg.Env != appconf.Production {
		extra = append(extra, webui.New(application).SetWebUIRoutes)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Routes(extra...),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
