package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeWriter struct {
	mu       sync.Mutex
	failures int
	written  []kafka.Message
	attempts int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempts++
	if w.failures > 0 {
		w.failures--
		return errors.New("broker not available")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishTransactionCreated(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, Topics{Transactions: "tx", TierChanges: "tiers"}, nil)

	tx := &domain.Transaction{
		ID:         "tx-1",
		Reference:  "ABCD234567",
		UserID:     "user-1",
		Direction:  domain.DirectionBuy,
		Status:     domain.TransactionPending,
		AmountINR:  decimal.NewFromInt(9000),
		AmountUSDT: decimal.RequireFromString("94.736842"),
		UnitRate:   decimal.NewFromInt(95),
		Network:    domain.NetworkTRC20,
	}
	require.NoError(t, p.PublishTransactionCreated(context.Background(), tx))

	require.Len(t, w.written, 1)
	msg := w.written[0]
	assert.Equal(t, "tx", msg.Topic)
	assert.Equal(t, []byte("user-1"), msg.Key)

	var event TransactionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "94.736842", event.AmountUSDT)
	assert.Equal(t, "9000.000000", event.AmountINR)
	assert.Equal(t, "TRC20", event.Network)
}

func TestPublishRetriesThenSucceeds(t *testing.T) {
	w := &fakeWriter{failures: 2}
	p := newPublisher(w, Topics{TierChanges: "tiers"}, nil)

	require.NoError(t, p.PublishTiersChanged(context.Background(), domain.TablePriceTiers, domain.DirectionBuy, 4))
	assert.Equal(t, 3, w.attempts)
	require.Len(t, w.written, 1)

	var event TierChangedEvent
	require.NoError(t, json.Unmarshal(w.written[0].Value, &event))
	assert.Equal(t, domain.TablePriceTiers, event.Table)
	assert.Equal(t, 4, event.Count)
}

func TestPublishGivesUp(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newPublisher(w, Topics{TierChanges: "tiers"}, nil)

	err := p.Publish(context.Background(), "tiers", domain.Message{Value: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, 3, w.attempts)
}

func TestKafkaConfigMechanism(t *testing.T) {
	mech, err := KafkaConfig{}.mechanism()
	require.NoError(t, err)
	assert.Nil(t, mech)

	mech, err = KafkaConfig{Username: "u", Password: "p"}.mechanism()
	require.NoError(t, err)
	assert.IsType(t, plain.Mechanism{}, mech)

	mech, err = KafkaConfig{Username: "u", Password: "p", Mechanism: "scram-sha-512"}.mechanism()
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-512", mech.Name())

	_, err = KafkaConfig{Username: "u", Mechanism: "GSSAPI"}.mechanism()
	assert.Error(t, err)
}

type fakeSubscriber struct {
	ch chan domain.Message
}

func (s *fakeSubscriber) Subscribe(ctx context.Context, _, _ string) (<-chan domain.Message, error) {
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-s.ch:
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func TestKafkaChangeNotifier(t *testing.T) {
	defer goleak.VerifyNone(t)

	sub := &fakeSubscriber{ch: make(chan domain.Message, 4)}
	n := NewKafkaChangeNotifier(sub, "tiers", "group", time.Millisecond, time.Millisecond, nil)
	require.NoError(t, n.Start(context.Background()))
	defer n.Close()

	got := make(chan domain.ChangeEvent, 4)
	unsub, err := n.Subscribe(domain.TableAppConfig, func(ev domain.ChangeEvent) { got <- ev })
	require.NoError(t, err)

	sub.ch <- domain.Message{Value: []byte("not json")}
	v, _ := json.Marshal(TierChangedEvent{Table: domain.TableAppConfig, Operation: "REPLACE"})
	sub.ch <- domain.Message{Value: v}

	select {
	case ev := <-got:
		assert.Equal(t, domain.ChangeEvent{Table: domain.TableAppConfig, Operation: "REPLACE"}, ev)
	case <-time.After(time.Second):
		t.Fatal("change event not delivered")
	}

	unsub()
	sub.ch <- domain.Message{Value: v}
	select {
	case <-got:
		t.Fatal("event delivered after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

// flakySubscriber отдает заранее заданные потоки, nil в streams - ошибка подписки
type flakySubscriber struct {
	mu      sync.Mutex
	streams []chan domain.Message
	groups  []string
}

func (s *flakySubscriber) Subscribe(_ context.Context, _, groupID string) (<-chan domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append(s.groups, groupID)
	i := len(s.groups) - 1
	if i >= len(s.streams) || s.streams[i] == nil {
		return nil, errors.New("group coordinator not available")
	}
	return s.streams[i], nil
}

func (s *flakySubscriber) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.groups...)
}

func waitChange(t *testing.T, ch <-chan domain.ChangeEvent) domain.ChangeEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("change event not delivered")
		return domain.ChangeEvent{}
	}
}

func TestKafkaChangeNotifierResubscribesAfterStreamClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	first := make(chan domain.Message)
	second := make(chan domain.Message, 1)
	sub := &flakySubscriber{streams: []chan domain.Message{first, nil, second}}
	n := NewKafkaChangeNotifier(sub, "tiers", "group-a", time.Millisecond, 5*time.Millisecond, nil)
	require.NoError(t, n.Start(context.Background()))
	defer n.Close()

	tiers := make(chan domain.ChangeEvent, 4)
	config := make(chan domain.ChangeEvent, 4)
	_, err := n.Subscribe(domain.TablePriceTiers, func(ev domain.ChangeEvent) { tiers <- ev })
	require.NoError(t, err)
	_, err = n.Subscribe(domain.TableAppConfig, func(ev domain.ChangeEvent) { config <- ev })
	require.NoError(t, err)

	// брокер оборвал чтение
	close(first)

	assert.Equal(t, domain.ChangeEvent{Table: domain.TablePriceTiers, Operation: domain.OperationReconnect}, waitChange(t, tiers))
	assert.Equal(t, domain.ChangeEvent{Table: domain.TableAppConfig, Operation: domain.OperationReconnect}, waitChange(t, config))
	assert.Equal(t, []string{"group-a", "group-a", "group-a"}, sub.calls())

	v, _ := json.Marshal(TierChangedEvent{Table: domain.TablePriceTiers, Operation: "UPDATE"})
	second <- domain.Message{Value: v}
	assert.Equal(t, "UPDATE", waitChange(t, tiers).Operation)
}

func TestKafkaChangeNotifierCloseDuringBackoff(t *testing.T) {
	defer goleak.VerifyNone(t)

	first := make(chan domain.Message)
	sub := &flakySubscriber{streams: []chan domain.Message{first}}
	n := NewKafkaChangeNotifier(sub, "tiers", "group-a", time.Hour, time.Hour, nil)
	require.NoError(t, n.Start(context.Background()))

	close(first)
	require.NoError(t, n.Close())
	assert.Len(t, sub.calls(), 1)
}

func TestInstanceGroupID(t *testing.T) {
	a := InstanceGroupID("exchange-tier-book")
	b := InstanceGroupID("exchange-tier-book")

	assert.True(t, strings.HasPrefix(a, "exchange-tier-book-"))
	assert.NotEqual(t, a, b)
}
