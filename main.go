package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"pasar/internal/app"
	"pasar/internal/auth"
	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/logging"
	"pasar/internal/notify"
	"pasar/pkg/kafka"
	"pasar/pkg/rabbitmq"
)

// consumeFunc runs a broker consumer until ctx is done.
type consumeFunc func(ctx context.Context, handler func(ctx context.Context, body []byte) error) error

func main() {
	// --- Configuration ---
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	tokens, err := auth.NewTokenService(cfg.TokenConfig())
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// --- Notifications ---
	notifier, consume, closers, err := setupNotifications(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize notifications: %v", err)
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn(context.Background(), "close failed", "error", err)
			}
		}
	}()

	if cfg.MailWorker {
		if err := startMailWorker(ctx, cfg, consume, logger); err != nil {
			log.Fatalf("Failed to start mail worker: %v", err)
		}
	}

	// --- HTTP ---
	server := app.New(app.Deps{
		DB:           db,
		Tokens:       tokens,
		Notifier:     notifier,
		Log:          logger,
		DevEndpoints: cfg.DevEndpoints,
		RequestLog:   true,
	})

	go func() {
		logger.Info(ctx, "starting server", "addr", cfg.AppPort, "transport", cfg.NotifyTransport)
		if err := server.Listen(cfg.AppPort); err != nil {
			logger.Error(ctx, "server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down server")
	if err := server.Shutdown(); err != nil {
		logger.Error(context.Background(), "error during shutdown", "error", err)
	}
	logger.Info(context.Background(), "server gracefully stopped")
}

// setupNotifications picks the notifier for the configured transport and
// the matching consumer for the mail worker.
func setupNotifications(cfg *config.Config, logger logging.Logger) (notify.Notifier, consumeFunc, []io.Closer, error) {
	switch cfg.NotifyTransport {
	case config.TransportRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.NotifyQueue}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return notify.NewQueueNotifier(client), client.Consume, []io.Closer{client}, nil

	case config.TransportKafka:
		kcfg := kafka.Config{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaGroupID,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
			TLS:      cfg.KafkaTLS,
		}
		producer, err := kafka.NewProducer(kcfg)
		if err != nil {
			return nil, nil, nil, err
		}
		closers := []io.Closer{producer}
		var consume consumeFunc
		if cfg.MailWorker {
			consumer, err := kafka.NewConsumer(kcfg, logger)
			if err != nil {
				producer.Close()
				return nil, nil, nil, err
			}
			consume = consumer.Listen
			closers = append(closers, consumer)
		}
		return notify.NewQueueNotifier(producer), consume, closers, nil

	default:
		return notify.NewLogNotifier(logger), nil, nil, nil
	}
}

// startMailWorker consumes queued notifications and delivers them over SMTP.
func startMailWorker(ctx context.Context, cfg *config.Config, consume consumeFunc, logger logging.Logger) error {
	if consume == nil {
		logger.Warn(ctx, "mail worker enabled without a queue transport; nothing to consume")
		return nil
	}
	mailer, err := notify.NewMailer(notify.MailerConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		From:        cfg.MailFrom,
		FromName:    cfg.MailFromName,
		FrontendURL: cfg.FrontendURL,
		Brand:       "Pasar",
	})
	if err != nil {
		return err
	}
	worker := notify.NewWorker(mailer, logger)

	go func() {
		logger.Info(ctx, "mail worker started")
		if err := consume(ctx, worker.HandleMessage); err != nil {
			logger.Error(ctx, "mail worker stopped", "error", err)
		}
	}()
	return nil
}
