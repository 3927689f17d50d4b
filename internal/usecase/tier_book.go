package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

type BookState string

const (
	BookLoading     BookState = "loading"
	BookReady       BookState = "ready"
	BookUnavailable BookState = "unavailable"
)

// TierSnapshot is never mutated after it is published; a refresh replaces it.
type TierSnapshot struct {
	Tiers    []domain.PriceTier
	Rates    map[string]decimal.Decimal
	LoadedAt time.Time
}

func (s *TierSnapshot) TiersFor(direction domain.Direction) []domain.PriceTier {
	if s == nil {
		return nil
	}
	return domain.FilterTiers(s.Tiers, direction)
}

func (s *TierSnapshot) Rate(key string) (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Zero, false
	}
	v, ok := s.Rates[key]
	return v, ok
}

type bookView struct {
	state    BookState
	snapshot *TierSnapshot
	err      error
}

type TierBookMetrics interface {
	ObserveTierRefresh(duration time.Duration, err error)
	SetTierBookState(state string)
	SetTiersLoaded(count int)
}

// TierBook держит текущий снимок тиров и курсов из app_config.
// Обновление идет в одной горутине по сигналу об изменении таблиц.
type TierBook struct {
	tierRepo     domain.PriceTierRepository
	configRepo   domain.AppConfigRepository
	notifier     domain.ChangeNotifier
	logger       *slog.Logger
	metrics      TierBookMetrics
	fetchTimeout time.Duration

	view      atomic.Pointer[bookView]
	refreshMu sync.Mutex
	trigger   chan struct{}

	mu      sync.Mutex
	unsubs  []func()
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewTierBook(
	tierRepo domain.PriceTierRepository,
	configRepo domain.AppConfigRepository,
	notifier domain.ChangeNotifier,
	logger *slog.Logger,
	metrics TierBookMetrics,
	fetchTimeout time.Duration,
) *TierBook {
	if logger == nil {
		logger = slog.Default()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	b := &TierBook{
		tierRepo:     tierRepo,
		configRepo:   configRepo,
		notifier:     notifier,
		logger:       logger,
		metrics:      metrics,
		fetchTimeout: fetchTimeout,
		trigger:      make(chan struct{}, 1),
	}
	b.store(&bookView{state: BookLoading})
	return b
}

// Start loads the first snapshot, subscribes to tier and config changes and
// starts the refresh loop. A failed first load leaves the book unavailable
// but is not an error: the next change notification retries.
func (b *TierBook) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return fmt.Errorf("tier book already started")
	}

	if b.notifier != nil {
		for _, table := range []string{domain.TablePriceTiers, domain.TableAppConfig} {
			unsub, err := b.notifier.Subscribe(table, b.onChange)
			if err != nil {
				b.releaseLocked()
				return fmt.Errorf("subscribe to %s changes: %w", table, err)
			}
			b.unsubs = append(b.unsubs, unsub)
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	b.started = true

	refreshCtx, refreshCancel := context.WithTimeout(loopCtx, b.fetchTimeout)
	if err := b.Refresh(refreshCtx); err != nil {
		b.logger.Warn("initial tier load failed", "error", err)
	}
	refreshCancel()

	go b.run(loopCtx)
	return nil
}

func (b *TierBook) run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.trigger:
			refreshCtx, cancel := context.WithTimeout(ctx, b.fetchTimeout)
			if err := b.Refresh(refreshCtx); err != nil {
				b.logger.Error("tier refresh failed", "error", err)
			}
			cancel()
		}
	}
}

func (b *TierBook) onChange(ev domain.ChangeEvent) {
	b.logger.Debug("tier source changed", "table", ev.Table, "operation", ev.Operation)
	b.Invalidate()
}

// Invalidate schedules a refresh. Signals arriving while one is pending are merged.
func (b *TierBook) Invalidate() {
	select {
	case b.trigger <- struct{}{}:
	default:
	}
}

// Refresh refetches tiers and rates and atomically replaces the snapshot.
// While the fetch is in flight the book reports loading with the previous
// snapshot; on failure it reports unavailable until the next refresh.
func (b *TierBook) Refresh(ctx context.Context) error {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	prev := b.view.Load()
	b.store(&bookView{state: BookLoading, snapshot: prev.snapshot})

	start := time.Now()
	snapshot, err := b.fetch(ctx)
	if b.metrics != nil {
		b.metrics.ObserveTierRefresh(time.Since(start), err)
	}
	if err != nil {
		b.store(&bookView{state: BookUnavailable, err: err})
		return err
	}

	b.store(&bookView{state: BookReady, snapshot: snapshot})
	if b.metrics != nil {
		b.metrics.SetTiersLoaded(len(snapshot.Tiers))
	}
	b.logger.Info("price tiers loaded", "tiers", len(snapshot.Tiers), "rates", len(snapshot.Rates))
	return nil
}

func (b *TierBook) fetch(ctx context.Context) (*TierSnapshot, error) {
	tiers, err := b.tierRepo.ListTiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch price tiers: %w", err)
	}
	domain.SortTiers(tiers)

	rates := map[string]decimal.Decimal{}
	if b.configRepo != nil {
		rates, err = b.configRepo.GetRates(ctx, domain.ConfigKeyBuyRate, domain.ConfigKeySellRate)
		if err != nil {
			return nil, fmt.Errorf("fetch rates: %w", err)
		}
	}

	return &TierSnapshot{
		Tiers:    tiers,
		Rates:    rates,
		LoadedAt: time.Now(),
	}, nil
}

func (b *TierBook) store(v *bookView) {
	b.view.Store(v)
	if b.metrics != nil {
		b.metrics.SetTierBookState(string(v.state))
	}
}

// View returns the current state and snapshot. The snapshot is nil when
// nothing was loaded yet or the last fetch failed.
func (b *TierBook) View() (BookState, *TierSnapshot) {
	v := b.view.Load()
	return v.state, v.snapshot
}

func (b *TierBook) LastError() error {
	return b.view.Load().err
}

// Close releases the change subscriptions and stops the refresh loop.
func (b *TierBook) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	if b.cancel != nil {
		b.cancel()
		<-b.done
		b.cancel = nil
	}
}

func (b *TierBook) releaseLocked() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
}
