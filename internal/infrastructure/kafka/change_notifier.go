package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/google/uuid"
)

// KafkaChangeNotifier implements domain.ChangeNotifier from TierChangedEvent
// messages, for deployments where instances cannot LISTEN on the database.
// Every instance must read the topic in its own consumer group, see InstanceGroupID.
type KafkaChangeNotifier struct {
	subscriber domain.SubscriberPort
	topic      string
	groupID    string
	minBackoff time.Duration
	maxBackoff time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	handlers map[string]map[uint64]func(domain.ChangeEvent)
	nextID   uint64

	cancel context.CancelFunc
	done   chan struct{}
}

func NewKafkaChangeNotifier(subscriber domain.SubscriberPort, topic, groupID string, minBackoff, maxBackoff time.Duration, logger *slog.Logger) *KafkaChangeNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	if minBackoff <= 0 {
		minBackoff = time.Second
	}
	if maxBackoff < minBackoff {
		maxBackoff = minBackoff
	}
	return &KafkaChangeNotifier{
		subscriber: subscriber,
		topic:      topic,
		groupID:    groupID,
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
		logger:     logger,
		handlers:   make(map[string]map[uint64]func(domain.ChangeEvent)),
	}
}

// InstanceGroupID строит consumer group для одного инстанса: в общей группе
// партиции делятся между репликами и сигнал получает только одна из них
func InstanceGroupID(prefix string) string {
	id := uuid.NewString()[:8]
	if host, err := os.Hostname(); err == nil && host != "" {
		return fmt.Sprintf("%s-%s-%s", prefix, host, id)
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}

func (n *KafkaChangeNotifier) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	msgs, err := n.subscriber.Subscribe(ctx, n.topic, n.groupID)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe to %s: %w", n.topic, err)
	}
	n.cancel = cancel
	n.done = make(chan struct{})
	go n.run(ctx, msgs)
	return nil
}

func (n *KafkaChangeNotifier) run(ctx context.Context, msgs <-chan domain.Message) {
	defer close(n.done)
	for {
		n.consume(ctx, msgs)
		if ctx.Err() != nil {
			return
		}
		n.logger.Warn("tier change stream closed, resubscribing", "topic", n.topic)
		msgs = n.resubscribe(ctx)
		if msgs == nil {
			return
		}
		// пока чтение стояло, изменения могли пройти мимо
		n.broadcast(domain.OperationReconnect)
	}
}

func (n *KafkaChangeNotifier) consume(ctx context.Context, msgs <-chan domain.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var event TierChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				n.logger.Warn("skip malformed tier change event", "error", err)
				continue
			}
			n.dispatch(domain.ChangeEvent{Table: event.Table, Operation: event.Operation})
		}
	}
}

// resubscribe повторяет подписку с экспоненциальной паузой, nil - ctx отменен
func (n *KafkaChangeNotifier) resubscribe(ctx context.Context) <-chan domain.Message {
	backoff := n.minBackoff
	for {
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		msgs, err := n.subscriber.Subscribe(ctx, n.topic, n.groupID)
		if err == nil {
			n.logger.Info("tier change stream resumed", "topic", n.topic)
			return msgs
		}
		n.logger.Error("failed to resubscribe", "topic", n.topic, "backoff", backoff, "error", err)
		backoff = min(backoff*2, n.maxBackoff)
	}
}

func (n *KafkaChangeNotifier) Subscribe(table string, onChange func(domain.ChangeEvent)) (func(), error) {
	if table == "" || onChange == nil {
		return nil, fmt.Errorf("kafka notifier: table and handler are required")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	subs, ok := n.handlers[table]
	if !ok {
		subs = make(map[uint64]func(domain.ChangeEvent))
		n.handlers[table] = subs
	}
	n.nextID++
	id := n.nextID
	subs[id] = onChange

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.handlers[table], id)
		})
	}, nil
}

func (n *KafkaChangeNotifier) dispatch(ev domain.ChangeEvent) {
	n.mu.Lock()
	fns := make([]func(domain.ChangeEvent), 0, len(n.handlers[ev.Table]))
	for _, fn := range n.handlers[ev.Table] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (n *KafkaChangeNotifier) broadcast(operation string) {
	n.mu.Lock()
	tables := make([]string, 0, len(n.handlers))
	for table, subs := range n.handlers {
		if len(subs) > 0 {
			tables = append(tables, table)
		}
	}
	n.mu.Unlock()

	for _, table := range tables {
		n.dispatch(domain.ChangeEvent{Table: table, Operation: operation})
	}
}

// Close stops consuming and waits for the reader goroutine to exit.
func (n *KafkaChangeNotifier) Close() error {
	if n.cancel == nil {
		return nil
	}
	n.cancel()
	<-n.done
	n.cancel = nil
	return nil
}
