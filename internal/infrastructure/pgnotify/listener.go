package pgnotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/lib/pq"
)

const channelSuffix = "_changes"

const OperationReconnect = domain.OperationReconnect

type pqListener interface {
	Listen(channel string) error
	Unlisten(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

// Listener implements domain.ChangeNotifier on top of Postgres LISTEN/NOTIFY.
// The notify_table_change trigger publishes on "<table>_changes".
type Listener struct {
	listener pqListener
	logger   *slog.Logger

	mu       sync.Mutex
	handlers map[string]map[uint64]func(domain.ChangeEvent)
	nextID   uint64

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewListener(dsn string, minReconnect, maxReconnect time.Duration, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	pl := pq.NewListener(dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("pg listener connected")
		case pq.ListenerEventDisconnected:
			logger.Warn("pg listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("pg listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Error("pg listener connection attempt failed", "error", err)
		}
	})
	return newListener(pl, logger)
}

func newListener(pl pqListener, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Listener{
		listener: pl,
		logger:   logger,
		handlers: make(map[string]map[uint64]func(domain.ChangeEvent)),
		done:     make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Listener) Subscribe(table string, onChange func(domain.ChangeEvent)) (func(), error) {
	if table == "" || onChange == nil {
		return nil, fmt.Errorf("pgnotify: table and handler are required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	subs, ok := l.handlers[table]
	if !ok {
		if err := l.listener.Listen(table + channelSuffix); err != nil && !errors.Is(err, pq.ErrChannelAlreadyOpen) {
			return nil, fmt.Errorf("listen %s: %w", table, err)
		}
		subs = make(map[uint64]func(domain.ChangeEvent))
		l.handlers[table] = subs
	}
	l.nextID++
	id := l.nextID
	subs[id] = onChange

	var once sync.Once
	return func() {
		once.Do(func() { l.unsubscribe(table, id) })
	}, nil
}

func (l *Listener) unsubscribe(table string, id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	subs, ok := l.handlers[table]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) > 0 {
		return
	}
	delete(l.handlers, table)
	select {
	case <-l.done:
		return
	default:
	}
	if err := l.listener.Unlisten(table + channelSuffix); err != nil && !errors.Is(err, pq.ErrChannelNotOpen) {
		l.logger.Warn("failed to unlisten", "table", table, "error", err)
	}
}

func (l *Listener) run() {
	defer l.wg.Done()
	notifications := l.listener.NotificationChannel()
	for {
		select {
		case <-l.done:
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			if n == nil {
				// соединение восстановлено, всем подписчикам нужно перечитать данные
				l.broadcast(OperationReconnect)
				continue
			}
			l.dispatch(parseEvent(n))
		}
	}
}

func parseEvent(n *pq.Notification) domain.ChangeEvent {
	var ev domain.ChangeEvent
	if n.Extra != "" {
		_ = json.Unmarshal([]byte(n.Extra), &ev)
	}
	if ev.Table == "" {
		ev.Table = strings.TrimSuffix(n.Channel, channelSuffix)
	}
	return ev
}

func (l *Listener) dispatch(ev domain.ChangeEvent) {
	for _, fn := range l.handlersFor(ev.Table) {
		fn(ev)
	}
}

func (l *Listener) broadcast(operation string) {
	l.mu.Lock()
	tables := make([]string, 0, len(l.handlers))
	for table := range l.handlers {
		tables = append(tables, table)
	}
	l.mu.Unlock()

	for _, table := range tables {
		l.dispatch(domain.ChangeEvent{Table: table, Operation: operation})
	}
}

func (l *Listener) handlersFor(table string) []func(domain.ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	subs := l.handlers[table]
	out := make([]func(domain.ChangeEvent), 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}

// Close stops dispatching and closes the underlying connection.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.listener.Close()
		l.wg.Wait()
	})
	return err
}
