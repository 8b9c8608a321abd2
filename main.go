package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/auth"
	"github.com/andrewpaige1/flashcard-saas/checkout"
	"github.com/andrewpaige1/flashcard-saas/collections"
	"github.com/andrewpaige1/flashcard-saas/completion"
	"github.com/andrewpaige1/flashcard-saas/config"
	"github.com/andrewpaige1/flashcard-saas/generator"
	"github.com/andrewpaige1/flashcard-saas/handlers"
	"github.com/andrewpaige1/flashcard-saas/logger"
	"github.com/andrewpaige1/flashcard-saas/middleware"
	"github.com/andrewpaige1/flashcard-saas/store"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docStore, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		zl.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	h := &handlers.Handler{
		Generator:      generator.New(completion.NewClient(cfg.Completion, nil), cfg.Completion.Model, zl),
		Collections:    collections.NewService(docStore, zl),
		Checkout:       checkout.NewStripeCheckout(cfg.Checkout, nil),
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            zl,
	}
	if cfg.Auth.Mode == config.AuthModeHS256 && !cfg.IsProduction() {
		h.TokenIssuer = auth.NewIssuer(cfg.Auth)
		zl.Warn("development token endpoint enabled at POST /api/dev/token")
	}

	authMiddleware, err := middleware.EnsureValidToken(cfg.Auth, zl)
	if err != nil {
		zl.Fatal("failed to set up authentication", zap.Error(err))
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(h.Routes()))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           middleware.RequestLogger(zl)(corsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zl.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver), zap.String("auth", cfg.Auth.Mode))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Store) (collections.Store, func(), error) {
	if cfg.Driver == config.StoreFirestore {
		client, err := firestore.NewClient(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, nil, err
		}
		return store.NewFirestoreStore(client), func() { _ = client.Close() }, nil
	}

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.NewGormStore(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}
