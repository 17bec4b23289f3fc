package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"portalsync/config"
	"portalsync/internal/adapters/discord"
	"portalsync/internal/adapters/portal"
	httpdelivery "portalsync/internal/delivery/http"
	"portalsync/internal/repository/postgres"
	"portalsync/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	portalClient := portal.NewClient(httpClient, cfg.PortalURL, cfg.PortalToken)
	discordClient := discord.NewClient(httpClient, cfg.DiscordToken, cfg.GuildID, cfg.AnnouncementsChannelID)

	mappings := postgres.NewEventMappingRepository(db)
	notifier := services.NewNotifierService(portalClient, mappings, discordClient, cfg.GuildID, logger)
	sync := services.NewReconcilerService(portalClient, discordClient, mappings, notifier, logger, 2*time.Minute)

	// Timer state is not persisted; seed reminders from the portal on boot.
	if err := notifier.Refresh(ctx); err != nil {
		logger.Error("initial notifier refresh failed", "err", err)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SyncCron, func() {
		if err := sync.SyncAll(context.Background()); err != nil {
			logger.Error("periodic sync failed", "err", err)
		}
		if err := notifier.Refresh(context.Background()); err != nil {
			logger.Error("periodic notifier refresh failed", "err", err)
		}
	}); err != nil {
		log.Fatalf("invalid SYNC_CRON %q: %v", cfg.SyncCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := httpdelivery.NewRouter(logger, cfg.WebhookSecret, sync, portalClient, db)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
