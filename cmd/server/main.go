package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"valentine/internal/analytics"
	"valentine/internal/app"
	"valentine/internal/config"
	"valentine/internal/mailer"
	"valentine/internal/realtime"
	"valentine/internal/server"
	"valentine/internal/util"
	"valentine/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	var tracker analytics.Tracker
	if cfg.AnalyticsBackend == "redis" {
		tracker = analytics.NewRedisTracker(redisClient)
	}

	var emailer mailer.Mailer
	if cfg.MailServer != "" {
		emailer = &mailer.SMTPMailer{
			Host:     cfg.MailServer,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailDefaultSender,
		}
	}

	var uploads storage.ObjectStore
	switch {
	case cfg.MinioEndpoint != "":
		uploads, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("failed to init minio: %v", err)
		}
	case cfg.UploadsDir != "":
		uploads, err = storage.NewDiskStore(cfg.UploadsDir)
		if err != nil {
			log.Fatalf("failed to init uploads dir: %v", err)
		}
	}

	hub := realtime.NewHub()

	appCore, err := app.New(app.Config{
		DatabaseURL:     cfg.DatabaseURL,
		DataDir:         cfg.DataDir,
		SessionStrategy: cfg.SessionStrategy,
		SessionTTL:      time.Duration(cfg.SessionTTLHours) * time.Hour,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		SecretKey:       cfg.SecretKey,
		BaseURL:         cfg.BaseURL,
		Notifier:        hub,
		Mailer:          emailer,
		Tracker:         tracker,
		Uploads:         uploads,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		Hub:            hub,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	addr := ":" + cfg.Port
	// No blanket read/write timeouts: /ws holds connections open
	// indefinitely and a deadline set before the upgrade would sever them.
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpServer.Router(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("valentine server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
