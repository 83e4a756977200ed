// Command librarian is an interactive library circulation tracker.
//
// It keeps books, users, loans, and fines in a SQLite file (default) or a PostgreSQL database
// and offers a numbered menu to issue and return books, register users and books,
// and list users and borrowing histories.
//
// Usage:
//
//	librarian [-adapter sqlite|sqlite-sqlx|pgx|postgres|postgres-sqlx] [-dsn path-or-url]
//	          [-log-level debug|info|warn|error] [-log-format text|json]
//	          [-output text|json] [-metrics-addr :9090]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/shell/metrics"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/shell/render"
)

const (
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "librarian: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	args []string,
	getenv func(string) string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {

	cfg, err := config.Load(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(stderr, cfg)
	if err != nil {
		return err
	}

	storeOptions := []sqlengine.Option{sqlengine.WithContextualLogger(logger)}
	handlerOptions := []observable.Option{observable.WithContextualLogging(logger)}

	if cfg.MetricsAddr != "" {
		collector := metrics.NewCollector()
		storeOptions = append(storeOptions, sqlengine.WithMetrics(collector))
		handlerOptions = append(handlerOptions, observable.WithMetrics(collector))

		shutdown := serveMetrics(cfg.MetricsAddr, collector, logger)
		defer shutdown()
	}

	store, closeStore, err := config.OpenStore(ctx, cfg, storeOptions...)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if closeErr := closeStore(); closeErr != nil {
			logger.Warn("closing store failed", "error", closeErr.Error())
		}
	}()

	handlers, err := NewHandlerBundle(store, handlerOptions...)
	if err != nil {
		return err
	}

	menu := NewMenu(handlers, render.NewRenderer(stdout, cfg.Output), stdin, stdout, time.Now)

	return menu.Run(ctx)
}

// serveMetrics starts the Prometheus endpoint in the background and returns its shutdown function.
func serveMetrics(addr string, collector *metrics.Collector, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, collector.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err.Error())
		}
	}()

	logger.Info("serving metrics", "addr", addr, "path", metricsPath)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(ctx)
	}
}
