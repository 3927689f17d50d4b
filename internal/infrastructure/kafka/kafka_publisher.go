package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Topics struct {
	Transactions string
	TierChanges  string
}

type DefaultKafkaPublisher struct {
	writer     messageWriter
	topics     Topics
	maxRetries int
	logger     *slog.Logger
}

func NewDefaultKafkaPublisher(cfg KafkaConfig, topics Topics, logger *slog.Logger) (*DefaultKafkaPublisher, error) {
	transport, err := cfg.transport()
	if err != nil {
		return nil, err
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		Transport:              transport,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, topics, logger), nil
}

func newPublisher(writer messageWriter, topics Topics, logger *slog.Logger) *DefaultKafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultKafkaPublisher{
		writer:     writer,
		topics:     topics,
		maxRetries: 3,
		logger:     logger,
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	var err error
	for attempt := 1; attempt <= k.maxRetries; attempt++ {
		if err = k.writer.WriteMessages(ctx, km...); err == nil {
			return nil
		}
		k.logger.Warn("kafka publish attempt failed", "topic", topic, "attempt", attempt, "error", err)

		// Линейная задержка между попытками
		if attempt < k.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("publish to %s after %d attempts: %w", topic, k.maxRetries, err)
}

func (k *DefaultKafkaPublisher) PublishTransactionCreated(ctx context.Context, tx *domain.Transaction) error {
	event := TransactionEvent{
		TransactionID:  tx.ID,
		Reference:      tx.Reference,
		UserID:         tx.UserID,
		Direction:      string(tx.Direction),
		Status:         string(tx.Status),
		AmountINR:      tx.AmountINR.StringFixed(6),
		AmountUSDT:     tx.AmountUSDT.StringFixed(6),
		UnitRate:       tx.UnitRate.String(),
		Network:        string(tx.Network),
		PayoutMethod:   string(tx.PayoutMethod),
		TimerExpiresAt: tx.TimerExpiresAt,
		CreatedAt:      tx.CreatedAt,
	}
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(ctx, k.topics.Transactions, domain.Message{Key: []byte(tx.UserID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishTiersChanged(ctx context.Context, table string, direction domain.Direction, count int) error {
	event := TierChangedEvent{
		Table:     table,
		Operation: "REPLACE",
		Direction: string(direction),
		Count:     count,
		ChangedAt: time.Now(),
	}
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(ctx, k.topics.TierChanges, domain.Message{Key: []byte(table), Value: v})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
