package main

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"marketdata-downloader/internal/config"
	interfaces "marketdata-downloader/internal/domain/interfaces"
	"marketdata-downloader/internal/infrastructure/broker"
	"marketdata-downloader/internal/infrastructure/filestore"
	"marketdata-downloader/internal/infrastructure/marketdata"
)

// openSink builds the writer selected by SINK. The returned func releases it.
func openSink(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.Writer, func(), error) {
	switch cfg.Sink.Kind {
	case config.SinkPostgres:
		repo, err := marketdata.NewRepository(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.SinkAMQP:
		conn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		pub, err := broker.NewPublisher(conn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.BatchSize, logger)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return pub, func() {
			pub.Close()
			conn.Close()
		}, nil
	default:
		w, err := filestore.NewWriter(cfg.Sink.OutputDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return w, func() {}, nil
	}
}
