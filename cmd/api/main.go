package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/cascade-digital/agency-backend/config"
	"github.com/cascade-digital/agency-backend/internal/bootstrap"
	catalogcache "github.com/cascade-digital/agency-backend/internal/catalog/cache"
	catalogcron "github.com/cascade-digital/agency-backend/internal/catalog/cron"
	catalogrepo "github.com/cascade-digital/agency-backend/internal/catalog/repository"
	catalogsvc "github.com/cascade-digital/agency-backend/internal/catalog/service"
	inquiryrepo "github.com/cascade-digital/agency-backend/internal/inquiries/repository"
	inquirysvc "github.com/cascade-digital/agency-backend/internal/inquiries/service"
	"github.com/cascade-digital/agency-backend/internal/inquiries/spam"
	"github.com/cascade-digital/agency-backend/internal/logging"
	"github.com/cascade-digital/agency-backend/internal/notifications"
	"github.com/cascade-digital/agency-backend/internal/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.L.Fatal().Err(err).Msg("config load failed")
	}

	logging.Init(cfg.App.Environment, cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: cfg.Database})
	if err != nil {
		logging.L.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	cache, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logging.L.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
		cache = nil
	} else {
		defer cache.Close()
	}

	var authClient *firebaseauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = staff.InitializeFirebase(cfg.Firebase)
		if err != nil {
			logging.L.Fatal().Err(err).Msg("firebase init failed")
		}
	}

	var catCache *catalogcache.CatalogCache
	if cache != nil {
		catCache = catalogcache.NewCatalogCache(cache)
	}
	catalog := catalogsvc.NewCatalogService(catalogrepo.NewCatalogRepository(db), catCache)

	mailer := notifications.NewMailer(cfg.SMTP)
	notifier := notifications.NewInquiryNotifier(
		mailer, cfg.SMTP.AdminEmail, cfg.App.SiteName, cfg.App.SiteURL,
		cfg.Intake.BackOfficeURL,
	)

	inqRepo := inquiryrepo.NewInquiryRepository(db)
	intake := inquirysvc.NewIntakeService(
		inqRepo, catalog, notifier, spam.New(spam.DefaultConfig()))

	warmer := catalogcron.NewWarmer(catalog)
	if err := warmer.Start(); err != nil {
		logging.L.Warn().Err(err).Msg("cache warmer not started")
	}
	defer warmer.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:      cfg,
		DB:          db,
		Cache:       cache,
		Catalog:     catalog,
		Intake:      intake,
		InquiryRepo: inqRepo,
		AuthClient:  authClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.L.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.L.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.L.Error().Err(err).Msg("forced shutdown")
	}
}
