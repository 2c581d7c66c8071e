package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"films-htmx/backend/internal/config"
	dbpkg "films-htmx/backend/internal/db"
	"films-htmx/backend/internal/film"
	httpx "films-htmx/backend/internal/http"
	"films-htmx/backend/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// app carries the logger across startup. It starts as a console fallback
// and is replaced once the config's own logger exists.
type app struct {
	log *zap.Logger
}

func main() {
	log, err := logging.New("info", "console")
	if err != nil {
		os.Exit(1)
	}
	a := &app{log: log}
	if err := a.rootCmd().Execute(); err != nil {
		a.log.Fatal("startup failed", zap.Error(err))
	}
}

func (a *app) rootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "films-server",
		Short:         "Serve the film list demo site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "path to the TOML config file")

	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the config and connect to the database, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, pool, err := a.bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			pool.Close()
			log.Info("config ok")
			_ = log.Sync()
			return nil
		},
	})
	return root
}

// bootstrap loads the config, builds the logger, validates the config and
// opens the pool. No listener exists yet when it fails.
func (a *app) bootstrap(ctx context.Context, cfgPath string) (config.Config, *zap.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, nil, err
	}
	a.log = log
	if err := cfg.Validate(); err != nil {
		return cfg, nil, nil, err
	}
	pool, err := dbpkg.Connect(ctx, cfg, log)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, log, pool, nil
}

// serve runs until SIGINT/SIGTERM, then drains in-flight requests.
func (a *app) serve(ctx context.Context, cfgPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, pool, err := a.bootstrap(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer log.Sync() //nolint:errcheck

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := dbpkg.RegisterPoolMetrics(reg, pool); err != nil {
		return err
	}

	srv, err := httpx.NewServer(httpx.Options{
		Log:        log,
		DB:         pool,
		Films:      film.Placeholders(),
		StaticDir:  cfg.StaticDir,
		CORSOrigin: cfg.CORSOrigin,
		Registry:   reg,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	hs := &http.Server{Handler: srv.R, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()
	log.Info("listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return hs.Shutdown(sctx)
}
