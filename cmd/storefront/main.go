package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/makuzaza/rss-ecomm-task/internal/cart"
	"github.com/makuzaza/rss-ecomm-task/internal/config"
	"github.com/makuzaza/rss-ecomm-task/internal/httpserver"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/session"
	"github.com/makuzaza/rss-ecomm-task/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	store := storage.Open(cfg.StatePath, logger)
	factory := platform.NewFactory(platform.Config{
		APIURL:       cfg.APIURL,
		AuthURL:      cfg.AuthURL,
		ProjectKey:   cfg.ProjectKey,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	}, store, nil, logger)
	carts := cart.NewServiceFactory(store, cfg.Currency)
	sess := session.New(factory, store, carts, logger)

	if err := sess.Init(context.Background()); err != nil {
		logger.Fatalf("init session: %v", err)
	}
	logger.Printf("session restored as %s", sess.State())

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{Session: sess}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
