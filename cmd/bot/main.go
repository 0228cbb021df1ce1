package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"trojan-bot/internal/bot"
	"trojan-bot/internal/config"
	"trojan-bot/internal/database"
	"trojan-bot/internal/logging"
	"trojan-bot/internal/monitoring"
	"trojan-bot/internal/referral"
	"trojan-bot/internal/worker"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogProduction)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	direct, indirect, _ := cfg.Credits()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := referral.NewStore(cfg.TeamAddresses,
		referral.Credits{Direct: direct, Indirect: indirect},
		referral.WithTierDepth(cfg.TierDepth),
	)
	if err != nil {
		logger.Fatal("could not create referral store", zap.Error(err))
	}
	defer store.Close()

	// Audit trail is optional
	var audit worker.AuditStore
	if cfg.AuditEnabled() {
		db, err := database.ConnectPostgres(cfg, logger)
		if err != nil {
			logger.Fatal("could not connect to database", zap.Error(err))
		}
		audit = &worker.GormAudit{DB: db}
	}

	var throttle bot.Throttler
	if cfg.ThrottleEnabled() {
		rdb, err := database.ConnectRedis(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("could not connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		throttle = bot.NewRedisThrottle(rdb, cfg.RefreshCooldown)
	}

	recorder := worker.NewRecorder(audit, nil, logger.Named("recorder"), 1024)
	service := referral.NewService(store, cfg.ReferralPrefix, logger.Named("referral"),
		referral.WithRecorder(recorder),
		referral.WithLinkBuilder(func(userID string) string {
			return bot.ReferralLink(cfg.BotUsername, cfg.ReferralPrefix, userID)
		}),
	)
	recorder.Stats = service

	// The recorder outlives the bot so events from draining handlers are flushed.
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()
	recorderDone := make(chan struct{})
	go func() {
		recorder.Start(recorderCtx)
		close(recorderDone)
	}()
	go monitoring.Serve(ctx, cfg.MetricsAddr, monitoring.Handler(cfg.MetricsAllowedCIDRs, logger), logger)

	tgBot, err := bot.NewBot(cfg.BotToken, service, throttle, logger.Named("bot"))
	if err != nil {
		logger.Fatal("could not create bot", zap.Error(err))
	}

	logger.Info("service started",
		zap.Int("team_addresses", len(cfg.TeamAddresses)),
		zap.Int("tier_depth", cfg.TierDepth),
		zap.Bool("audit", cfg.AuditEnabled()),
		zap.Bool("throttle", cfg.ThrottleEnabled()),
	)
	if err := tgBot.Start(ctx); err != nil {
		logger.Error("bot stopped", zap.Error(err))
	}
	stop()

	stopRecorder()
	<-recorderDone
	logger.Info("shutting down")
}
