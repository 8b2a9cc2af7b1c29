package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/notification-inbox/config"
	"github.com/marcelsud/notification-inbox/gateways"
	"github.com/marcelsud/notification-inbox/gateways/alipay"
	"github.com/marcelsud/notification-inbox/gateways/paypal"
	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/marcelsud/notification-inbox/inbox/redis"
	"github.com/marcelsud/notification-inbox/internal/http/chi"
	"github.com/marcelsud/notification-inbox/metrics"
)

const TIMEOUT = 30 * time.Second

/* main wires config, gateways, storage, metrics and the HTTP API
 * Imports flow one way: the binary imports the business packages,
 * which import the storage layer
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := httplog.NewLogger("notification-inbox", httplog.Options{
		JSON: true,
	})

	mode, err := cfg.Mode()
	if err != nil {
		logger.Error().Err(err).Msg("invalid integration mode")
		return
	}

	loader := gateways.NewLoader()
	if err := loader.Load(cfg.GatewaysFile); err != nil {
		logger.Error().Err(err).Str("file", cfg.GatewaysFile).Msg("loading gateways")
		return
	}
	registry, err := gateways.NewRegistry(mode, paypal.Definition(), alipay.Definition())
	if err != nil {
		logger.Error().Err(err).Msg("registering gateways")
		return
	}
	if err := registry.ConfigureAll(loader); err != nil {
		logger.Error().Err(err).Msg("configuring gateways")
		return
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
		redis.WithTTL(cfg.NotificationTTL()),
	)
	if err != nil {
		logger.Error().Err(err).Msg("connecting to storage")
		return
	}
	defer repo.Close(ctx)

	exporter, err := metrics.NewOTelExporter(metrics.NewRepositoryCollector(repo, registry.Names()))
	if err != nil {
		logger.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	defer exporter.Shutdown(context.Background())

	service := inbox.NewService(repo, registry, exporter, logger)
	r := chi.NotificationHandlers(ctx, service, registry, chi.Options{
		Logger:            logger,
		TrustForwardedFor: cfg.TrustForwardedFor,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Metrics:           exporter.ServeHTTP(),
	})

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().
		Str("port", cfg.Port).
		Stringer("mode", mode).
		Strs("gateways", registry.Names()).
		Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutting down")
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server: %w", err)
	}
}
