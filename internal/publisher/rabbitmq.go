package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"rankwatch/internal/domain"
	"rankwatch/internal/report"
)

type RabbitMQ struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	exchange  string
	rankKey   string
	reportKey string
	logger    *slog.Logger
}

type Config struct {
	URL              string
	Exchange         string
	RoutingKey       string
	ReportRoutingKey string
	QueueName        string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{cfg.RoutingKey, cfg.ReportRoutingKey} {
		if key == "" {
			continue
		}
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("bind queue to %s: %w", key, err)
		}
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
		"report_routing_key", cfg.ReportRoutingKey,
	)

	return &RabbitMQ{
		conn:      conn,
		channel:   ch,
		exchange:  cfg.Exchange,
		rankKey:   cfg.RoutingKey,
		reportKey: cfg.ReportRoutingKey,
		logger:    logger,
	}, nil
}

type RankMessage struct {
	Action    string                  `json:"action"` // always "recorded"
	Entry     domain.RankHistoryEntry `json:"entry"`
	Current   bool                    `json:"current"`
	Timestamp time.Time               `json:"timestamp"`
}

type ReportMessage struct {
	Report    report.Notification `json:"report"`
	Timestamp time.Time           `json:"timestamp"`
}

// PublishRank announces a stored history entry. current reports whether the
// singleton snapshot was updated by the same write.
func (r *RabbitMQ) PublishRank(ctx context.Context, entry domain.RankHistoryEntry, current bool) error {
	msg := RankMessage{
		Action:    "recorded",
		Entry:     entry,
		Current:   current,
		Timestamp: time.Now().UTC(),
	}
	if err := r.publish(ctx, r.rankKey, msg); err != nil {
		return err
	}

	r.logger.Debug("published rank",
		"id", entry.ID,
		"extracted_by", entry.ExtractedBy,
	)
	return nil
}

func (r *RabbitMQ) PublishReport(ctx context.Context, n report.Notification) error {
	if r.reportKey == "" {
		return nil
	}
	msg := ReportMessage{
		Report:    n,
		Timestamp: time.Now().UTC(),
	}
	if err := r.publish(ctx, r.reportKey, msg); err != nil {
		return err
	}

	r.logger.Debug("published report", "subject", n.Subject)
	return nil
}

func (r *RabbitMQ) publish(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		key,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
