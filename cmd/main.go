package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/techjobs/backend/internal/api"
	"github.com/techjobs/backend/internal/config"
	"github.com/techjobs/backend/internal/logger"
	"github.com/techjobs/backend/internal/metrics"
	"github.com/techjobs/backend/internal/repositories"
	"github.com/techjobs/backend/internal/services"

	log "github.com/sirupsen/logrus"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.API.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	collections := repositories.NewCollectionsRepository(dbContext.DB)
	bus := EventBus.New()

	auth, err := services.NewAuthService(ctx, collections, cfg.Store, cfg.API.SessionTTL)
	if err != nil {
		log.Fatalf("can't create auth service: %v", err)
	}

	jobs, err := services.NewJobService(ctx, collections, bus, cfg.Store)
	if err != nil {
		log.Fatalf("can't create job service: %v", err)
	}

	chat, err := services.NewChatService(ctx, collections, bus, cfg.Store)
	if err != nil {
		log.Fatalf("can't create chat service: %v", err)
	}

	conversations := services.NewConversationService(chat, jobs, auth)

	notifier, err := services.NewActivityNotifier(bus)
	if err != nil {
		log.Fatalf("can't create activity notifier: %v", err)
	}
	defer notifier.Close()

	janitor, err := services.NewStoreJanitor(collections, cfg.Store.JanitorSpec)
	if err != nil {
		log.Fatalf("can't create store janitor: %v", err)
	}
	defer janitor.Stop()

	server := api.NewServer(cfg.API, auth, jobs, chat, conversations)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("api server failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("api server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}
