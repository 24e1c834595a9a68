package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"

	"github.com/dentalbright/booking-api/internal/config"
	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/repository/postgres"
	"github.com/dentalbright/booking-api/internal/service/notification"
	"github.com/dentalbright/booking-api/internal/voice"
	"github.com/dentalbright/booking-api/pkg/logger"
	"github.com/dentalbright/booking-api/pkg/messaging"
	"github.com/dentalbright/booking-api/pkg/messaging/redis"
	"github.com/dentalbright/booking-api/pkg/metrics"
	"github.com/dentalbright/booking-api/pkg/worker"
)

type workerConfig struct {
	RedisURL     string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	MetricsPort  int           `envconfig:"METRICS_PORT" default:"9090"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`

	SMTP  notification.SMTPConfig
	Voice voice.Config
}

// The worker drains the outbox into the broker and consumes the resulting
// events: an outbound confirmation call for web bookings plus an email for
// every change. Appointments booked during a call skip the call.
func main() {
	_ = godotenv.Load()

	log := logger.NewLogger(nil)

	var wcfg workerConfig
	if err := envconfig.Process("", &wcfg); err != nil {
		log.Fatal(err, "failed to load worker configuration")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          wcfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &zlog.Logger)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("dentalbright", "worker")
	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     wcfg.BatchSize,
		PollInterval:  wcfg.PollInterval,
		RetryAttempts: 3,
		RetryDelay:    5 * time.Second,
	}, log, m)

	consumer := &eventConsumer{
		voice:         voice.NewClient(wcfg.Voice, log),
		notifications: notification.NewService(wcfg.SMTP, log),
		logger:        log,
		metrics:       m,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go consumer.run(ctx, broker)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", wcfg.MetricsPort)
		if err := http.ListenAndServe(addr, nil); err != nil && err != http.ErrServerClosed {
			log.Error(err, "metrics server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker")
	cancel()
	time.Sleep(time.Second)
}

type eventConsumer struct {
	voice         *voice.Client
	notifications *notification.Service
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func (c *eventConsumer) run(ctx context.Context, broker messaging.Broker) {
	channels := []string{
		model.EventAppointmentCreated,
		model.EventAppointmentRescheduled,
		model.EventAppointmentCanceled,
	}

	for _, channel := range channels {
		messages, err := broker.Subscribe(ctx, channel)
		if err != nil {
			c.logger.Error(err, "failed to subscribe", "channel", channel)
			continue
		}
		go c.consume(ctx, channel, messages)
	}

	<-ctx.Done()
}

func (c *eventConsumer) consume(ctx context.Context, channel string, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := c.handle(ctx, channel, msg); err != nil {
				c.logger.Error(err, "failed to handle event", "channel", channel)
			}
		}
	}
}

func (c *eventConsumer) handle(ctx context.Context, channel string, msg []byte) error {
	var payload model.AppointmentEventPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}

	switch channel {
	case model.EventAppointmentCreated:
		c.placeCall(ctx, &payload)
		if err := c.notifications.SendConfirmation(&payload); err != nil {
			c.metrics.EmailsSent.WithLabelValues("error").Inc()
			return err
		}
	case model.EventAppointmentRescheduled:
		if err := c.notifications.SendReschedule(&payload); err != nil {
			c.metrics.EmailsSent.WithLabelValues("error").Inc()
			return err
		}
	case model.EventAppointmentCanceled:
		if err := c.notifications.SendCancellation(&payload); err != nil {
			c.metrics.EmailsSent.WithLabelValues("error").Inc()
			return err
		}
	}

	c.metrics.EmailsSent.WithLabelValues("success").Inc()
	return nil
}

// placeCall is best effort: the appointment is already booked and the email
// still goes out if the call fails. Call-booked appointments are skipped,
// the patient is already on the phone.
func (c *eventConsumer) placeCall(ctx context.Context, payload *model.AppointmentEventPayload) {
	if payload.BookedByCall {
		return
	}

	if _, err := c.voice.PlaceConfirmationCall(ctx, payload); err != nil {
		c.metrics.VoiceCallsPlaced.WithLabelValues("error").Inc()
		c.logger.Error(err, "failed to place confirmation call",
			"appointment_id", payload.AppointmentID)
		return
	}
	c.metrics.VoiceCallsPlaced.WithLabelValues("success").Inc()
}
