package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/server"
	"github.com/desertthunder/catalogai/internal/session"
	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/desertthunder/catalogai/internal/web"
	"github.com/urfave/cli/v3"
)

const sweepInterval = time.Minute

// Serve starts the web application and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(ctx, cmd); err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(cfg.SessionTTL)
	go store.Run(ctx, sweepInterval)

	srv := server.NewHTTPServer(cfg, r.router(store, cfg.SessionTTL))
	ready := make(chan string, 1)
	if cmd.Bool("open") {
		go r.openWhenReady(ctx, ready)
	}

	return server.Serve(ctx, srv, r.logger, ready)
}

// router wires the app, health and metrics handlers behind the shared middleware chain.
func (r *Runner) router(store *session.Store, ttl time.Duration) http.Handler {
	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger), server.Instrument())

	router.Handler(web.NewHandler(web.Options{
		Engine:     r.engine,
		Store:      store,
		Logger:     r.logger,
		SessionTTL: ttl,
	}))
	router.Handler(server.HealthHandler{})
	router.Mount("/metrics", metrics.Handler())
	return router
}

func (r *Runner) openWhenReady(ctx context.Context, ready <-chan string) {
	select {
	case <-ctx.Done():
		return
	case addr := <-ready:
		url := "http://" + browserAddr(addr) + "/"
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
			return
		}
		r.logger.Info("opened browser", "url", url)
	}
}

// browserAddr maps wildcard listen addresses to localhost.
func browserAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
