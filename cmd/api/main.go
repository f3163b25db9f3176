package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ruffo_chat_backend/internal/branches"
	"ruffo_chat_backend/internal/catalog"
	"ruffo_chat_backend/internal/chat"
	"ruffo_chat_backend/internal/conversation"
	"ruffo_chat_backend/internal/events"
	apphttp "ruffo_chat_backend/internal/http"
	"ruffo_chat_backend/internal/http/router"
	"ruffo_chat_backend/internal/notification"
	"ruffo_chat_backend/internal/telegram"
	"ruffo_chat_backend/platform/config"
	"ruffo_chat_backend/platform/logger"
	"ruffo_chat_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Thread state store: Redis when configured, in-memory otherwise
	var store conversation.Store
	var health apphttp.HealthChecker
	if cfg.RedisURL != "" {
		redisStore, err := conversation.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer redisStore.Close()
		store = redisStore
		health = redisStore
		log.Info("redis session store initialized", "ttl", cfg.SessionTTL)
	} else {
		store = conversation.NewMemoryStore()
		log.Warn("no redis configured, thread state is in-memory only")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(cfg, val, log)
	branchesModule := branches.NewModule(log)

	chatModule := chat.NewModule(
		cfg,
		store,
		catalogModule.Service(),
		branchesModule.Service(),
		eventBus,
		val,
		log,
	)

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(cfg, eventBus, log)

	// Telegram channel, enabled only when a bot token is configured
	if cfg.IsTelegramEnabled() {
		tg := telegram.NewClient(cfg.TelegramBotToken, chatModule.Service(), log)
		go tg.Run(ctx)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			chatModule,
			catalogModule,
			branchesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
