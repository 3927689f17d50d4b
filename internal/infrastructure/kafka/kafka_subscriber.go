package kafka

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaSubscriber struct {
	cfg    KafkaConfig
	logger *slog.Logger
}

func NewDefaultKafkaSubscriber(cfg KafkaConfig, logger *slog.Logger) *DefaultKafkaSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultKafkaSubscriber{cfg: cfg, logger: logger}
}

// Subscribe читает топик до отмены ctx или ошибки чтения, канал закрывается
// вместе с reader. Переподписку делает вызывающая сторона
func (k *DefaultKafkaSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	dialer, err := k.cfg.dialer()
	if err != nil {
		return nil, err
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.cfg.Brokers,
		Topic:   topic,
		GroupID: groupID,
		Dialer:  dialer,
		// новая группа не должна перечитывать историю топика
		StartOffset: kafka.LastOffset,
	})
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					k.logger.Error("kafka read failed", "topic", topic, "error", err)
				}
				return
			}
			select {
			case out <- domain.Message{Key: m.Key, Value: m.Value}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
