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
	"github.com/tbxark/calltaker/api"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, conf)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := &api.Handler{Agent: a.agent, Sessions: a.sessions, Complaints: a.complaints}
	srv := &http.Server{
		Addr:              conf.Server.Addr,
		Handler:           api.NewRouter(handler, conf.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.Info("listening", "addr", conf.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if conf.Server.SessionIdleMinutes > 0 {
		idle := time.Duration(conf.Server.SessionIdleMinutes) * time.Minute
		eg.Go(func() error {
			ticker := time.NewTicker(min(idle, time.Minute))
			defer ticker.Stop()
			for {
				select {
				case <-egCtx.Done():
					return nil
				case <-ticker.C:
					if n := a.cache.EvictIdle(idle); n > 0 {
						slog.Info("evicted idle sessions", "count", n)
					}
				}
			}
		})
	}
	return eg.Wait()
}
