package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/events"
	"github.com/oksasatya/go-account-service/internal/infrastructure/directory"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	logger := helpers.NewLogger(cfg.AppName+"-directory", cfg.Env)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	dir := directory.New(es, cfg.ESUsersIndex, logger)
	if !dir.Enabled() {
		log.Fatal("Elasticsearch not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEventsQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(logger, dir, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("directory worker listening")
	<-stop
	logger.Info("shutting down")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func handle(logger logrus.FieldLogger, dir *directory.Directory, msg amqp.Delivery) {
	ev, err := events.Decode(msg.Body)
	if err != nil {
		logger.WithError(err).WithField("type", msg.Type).Warn("dropping bad message")
		_ = msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := dir.Apply(ctx, ev); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"event":   ev.Type,
			"user_id": ev.UserID,
		}).Warn("apply failed; requeueing")
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
