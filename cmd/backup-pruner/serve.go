package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-pruner/internal/config"
	"github.com/raoulx24/backup-pruner/internal/mailbox"
	"github.com/raoulx24/backup-pruner/internal/metrics"
	"github.com/raoulx24/backup-pruner/internal/scheduler"
	"github.com/raoulx24/backup-pruner/internal/source"
	"github.com/raoulx24/backup-pruner/internal/watcher"
	"github.com/raoulx24/backup-pruner/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Prune on a cron schedule, reloading the config on change or SIGHUP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(configPath, true)
			if err != nil {
				return err
			}
			if err := finishConfig(cfg); err != nil {
				return err
			}
			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Info("shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	m := metrics.New(nil)

	// Mailbox for run requests
	mb := mailbox.New[worker.Job]()

	// Worker (one pruning run at a time)
	w := worker.New(cfg, source.Open, log, m, mb, nil)

	// Scheduler (cron ticks push into the mailbox)
	sched := scheduler.New(cfg.Schedule.Cron, mb, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	go w.Start(ctx)

	if cfg.Schedule.RunOnStart {
		sched.Trigger("startup")
	}
	if next := sched.NextRun(); next != nil {
		log.Info("next scheduled run", "at", next.Format(time.RFC3339))
	}

	srv := startMetricsServer(cfg.Metrics.Address, m, log)

	var watch *watcher.Watcher

	// logging and the metrics address are read at startup only
	reload := func(newCfg *config.Config) {
		w.UpdateConfig(newCfg)
		if err := sched.UpdateSchedule(newCfg.Schedule.Cron); err != nil {
			log.Error("schedule not updated", "error", err)
		}
		if watch != nil {
			watch.UpdateConfig(newCfg.ConfigReload)
		}
	}

	// Config file watcher
	if cfg.ConfigReload.Enabled {
		watch = watcher.New(configPath, cfg.ConfigReload, log, reload)
		go func() {
			if err := watch.Start(ctx); err != nil {
				log.Error("config watcher stopped", "error", err)
			}
		}()
	}

	// Hot reload on SIGHUP
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				newCfg, err := config.Load(configPath)
				if err != nil {
					log.Error("config reload failed", "error", err)
					continue
				}
				reload(newCfg)
				log.Info("config reloaded")
			}
		}
	}()

	<-ctx.Done()

	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}
	log.Info("exit complete")
	return nil
}

func startMetricsServer(addr string, m *metrics.Metrics, log *slog.Logger) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
