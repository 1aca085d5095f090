package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	domain "marketdata-downloader/internal/domain/entity/marketdata"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher hands downloaded series to a RabbitMQ fanout exchange as JSON batches.
type Publisher struct {
	channel   channel
	exchange  string
	batchSize int
	logger    *logrus.Entry
	mu        sync.Mutex
}

func NewPublisher(conn *amqp.Connection, exchange string, batchSize int, logger *logrus.Logger) (*Publisher, error) {
	if exchange == "" {
		return nil, errors.New("exchange name cannot be empty")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return newPublisher(ch, exchange, batchSize, logger), nil
}

func newPublisher(ch channel, exchange string, batchSize int, logger *logrus.Logger) *Publisher {
	return &Publisher{
		channel:   ch,
		exchange:  exchange,
		batchSize: batchSize,
		logger:    logger.WithField("component", "publisher"),
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.channel.Close(); err != nil {
		p.logger.Errorf("close rabbitmq channel: %v", err)
	}
}

func (p *Publisher) WriteTicks(ctx context.Context, symbol domain.Symbol, ticks []domain.Tick) error {
	batches := chunk(mapSlice(ticks, tickPayload), p.batchSize)
	for i, batch := range batches {
		msg := BatchMessage{
			Kind:       SeriesTicks,
			Symbol:     symbolPayload(symbol),
			Resolution: domain.ResolutionTick.String(),
			Part:       i + 1,
			Parts:      len(batches),
			Ticks:      batch,
		}
		if err := p.publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) WriteBars(ctx context.Context, symbol domain.Symbol, resolution domain.Resolution, bars []domain.TradeBar) error {
	batches := chunk(mapSlice(bars, barPayload), p.batchSize)
	for i, batch := range batches {
		msg := BatchMessage{
			Kind:       SeriesBars,
			Symbol:     symbolPayload(symbol),
			Resolution: resolution.String(),
			Part:       i + 1,
			Parts:      len(batches),
			Bars:       batch,
		}
		if err := p.publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, msg BatchMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	start := time.Now()
	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Headers: amqp.Table{
			"ticker":     msg.Symbol.Ticker,
			"resolution": msg.Resolution,
			"kind":       string(msg.Kind),
		},
		Body: body,
	})
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s %s part %d/%d: %w", msg.Symbol.Ticker, msg.Resolution, msg.Part, msg.Parts, err)
	}

	p.logger.WithFields(logrus.Fields{
		"symbol":     msg.Symbol.Ticker,
		"resolution": msg.Resolution,
		"size":       len(msg.Ticks) + len(msg.Bars),
		"took_ms":    time.Since(start).Milliseconds(),
	}).Debug("flushed batch")
	return nil
}
