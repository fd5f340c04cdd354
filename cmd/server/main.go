package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/config"
	api "github.com/plateful/plateful/internal/http"
	"github.com/plateful/plateful/internal/log"
	"github.com/plateful/plateful/internal/mail"
	"github.com/plateful/plateful/internal/media"
	"github.com/plateful/plateful/internal/metrics"
	"github.com/plateful/plateful/internal/payment"
	"github.com/plateful/plateful/internal/queue"
	"github.com/plateful/plateful/internal/repo"
)

// @title Plateful API
// @version 1.0.0
// @description Food ordering API: restaurants, menus, carts, checkout and accounts.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name token
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Production())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := repo.Connect(ctx, cfg.MongoURI, cfg.MongoDB, 5, 5*time.Second)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
		}
		defer rds.Close()
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
		pub = p
	}
	defer pub.Close()

	var mailer mail.Mailer = mail.DevMailer{}
	if cfg.MailerSendAPIKey != "" && cfg.MailFrom != "" {
		mailer = mail.NewMailerSend(cfg.MailerSendAPIKey, cfg.MailFromName, cfg.MailFrom)
	}

	var uploader media.Uploader = media.Disabled{}
	if cfg.CloudinaryCloudName != "" {
		up, err := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Fatal("cloudinary init", zap.Error(err))
		}
		uploader = up
	}

	pay := payment.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	h := api.NewHandler(&cfg, store, rds, mailer, uploader, pay, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("plateful listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("signal received, shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
