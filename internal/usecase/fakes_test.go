package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func seedTiers() []domain.PriceTier {
	return []domain.PriceTier{
		{ID: "b1", Direction: domain.DirectionBuy, Kind: domain.TierKindQuantity, RangeLabel: "1-99", MinQuantity: d("1"), MaxQuantity: dp("100"), UnitRate: d("95")},
		{ID: "b2", Direction: domain.DirectionBuy, Kind: domain.TierKindQuantity, RangeLabel: "100-499", MinQuantity: d("100"), MaxQuantity: dp("500"), UnitRate: d("94.5"), SortOrder: 1},
		{ID: "b3", Direction: domain.DirectionBuy, Kind: domain.TierKindQuantity, RangeLabel: "500-999", MinQuantity: d("500"), MaxQuantity: dp("1000"), UnitRate: d("94"), SortOrder: 2},
		{ID: "b4", Direction: domain.DirectionBuy, Kind: domain.TierKindQuantity, RangeLabel: "1000+", MinQuantity: d("1000"), UnitRate: d("93.5"), SortOrder: 3},
	}
}

type fakeTierRepo struct {
	mu       sync.Mutex
	tiers    []domain.PriceTier
	err      error
	calls    int
	block    chan struct{}
	replaced map[domain.Direction][]domain.PriceTier
}

func (r *fakeTierRepo) ListTiers(ctx context.Context) ([]domain.PriceTier, error) {
	r.mu.Lock()
	r.calls++
	block := r.block
	tiers := append([]domain.PriceTier(nil), r.tiers...)
	err := r.err
	r.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return tiers, err
}

func (r *fakeTierRepo) ListTiersByDirection(ctx context.Context, direction domain.Direction) ([]domain.PriceTier, error) {
	tiers, err := r.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterTiers(tiers, direction), nil
}

func (r *fakeTierRepo) ReplaceTiers(_ context.Context, direction domain.Direction, tiers []domain.PriceTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.replaced == nil {
		r.replaced = map[domain.Direction][]domain.PriceTier{}
	}
	r.replaced[direction] = tiers
	return nil
}

func (r *fakeTierRepo) set(tiers []domain.PriceTier, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers = tiers
	r.err = err
}

func (r *fakeTierRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type fakeConfigRepo struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal
	err   error
}

func (r *fakeConfigRepo) GetRates(_ context.Context, keys ...string) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]decimal.Decimal{}
	for _, k := range keys {
		if v, ok := r.rates[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (r *fakeConfigRepo) SetRate(_ context.Context, key string, value decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rates == nil {
		r.rates = map[string]decimal.Decimal{}
	}
	r.rates[key] = value
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	handlers map[string]func(domain.ChangeEvent)
	err      error
}

func (n *fakeNotifier) Subscribe(table string, onChange func(domain.ChangeEvent)) (func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	if n.handlers == nil {
		n.handlers = map[string]func(domain.ChangeEvent){}
	}
	n.handlers[table] = onChange
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.handlers, table)
	}, nil
}

func (n *fakeNotifier) fire(table string) {
	n.mu.Lock()
	h := n.handlers[table]
	n.mu.Unlock()
	if h != nil {
		h(domain.ChangeEvent{Table: table, Operation: "UPDATE"})
	}
}

func (n *fakeNotifier) subscribed() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.handlers)
}

// staticBook отдает заданное состояние без фоновой загрузки
type staticBook struct {
	state    BookState
	snapshot *TierSnapshot
}

func (b staticBook) View() (BookState, *TierSnapshot) {
	return b.state, b.snapshot
}

func readyBook(tiers []domain.PriceTier, rates map[string]decimal.Decimal) staticBook {
	return staticBook{
		state:    BookReady,
		snapshot: &TierSnapshot{Tiers: tiers, Rates: rates, LoadedAt: time.Now()},
	}
}

type fakeQuoteStore struct {
	mu      sync.Mutex
	quotes  map[string]domain.LockedQuote
	saveErr error
	ttls    map[string]time.Duration
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{quotes: map[string]domain.LockedQuote{}, ttls: map[string]time.Duration{}}
}

func (s *fakeQuoteStore) Save(_ context.Context, q *domain.LockedQuote, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.quotes[q.ID] = *q
	s.ttls[q.ID] = ttl
	return nil
}

func (s *fakeQuoteStore) Get(_ context.Context, id string) (*domain.LockedQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	return &q, nil
}

func (s *fakeQuoteStore) Take(_ context.Context, id string) (*domain.LockedQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	delete(s.quotes, id)
	return &q, nil
}

type fakeQuoteEvents struct {
	logged []domain.LockedQuote
	err    error
}

func (e *fakeQuoteEvents) LogQuoteLocked(_ context.Context, q *domain.LockedQuote) error {
	e.logged = append(e.logged, *q)
	return e.err
}

type fakeQuoteMetrics struct {
	states []string
}

func (m *fakeQuoteMetrics) RecordQuote(_, _, state string) {
	m.states = append(m.states, state)
}

type fakeTxRepo struct {
	created []*domain.Transaction
	err     error
}

func (r *fakeTxRepo) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, tx)
	return nil
}

func (r *fakeTxRepo) GetTransactionByID(_ context.Context, id string) (*domain.Transaction, error) {
	for _, tx := range r.created {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *fakeTxRepo) GetTransactionsByUserID(_ context.Context, userID string, page, limit int64, _ domain.TransactionFilters) ([]*domain.Transaction, int64, error) {
	var out []*domain.Transaction
	for _, tx := range r.created {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, int64(len(out)), nil
}

type fakeTxPublisher struct {
	published []*domain.Transaction
}

func (p *fakeTxPublisher) PublishTransactionCreated(_ context.Context, tx *domain.Transaction) error {
	p.published = append(p.published, tx)
	return nil
}

type fakeTierPublisher struct {
	tables []string
}

func (p *fakeTierPublisher) PublishTiersChanged(_ context.Context, table string, _ domain.Direction, _ int) error {
	p.tables = append(p.tables, table)
	return nil
}

type countingInvalidator struct {
	n int
}

func (c *countingInvalidator) Invalidate() { c.n++ }

type fakeMarketProvider struct {
	name    string
	prices  []domain.MarketPrice
	err     error
	calls   int
	healthy bool
}

func (p *fakeMarketProvider) GetPrices(_ context.Context, _ *domain.MarketQuery) ([]domain.MarketPrice, error) {
	p.calls++
	return p.prices, p.err
}

func (p *fakeMarketProvider) GetName() string { return p.name }

func (p *fakeMarketProvider) IsHealthy(_ context.Context) bool { return p.healthy }

var errBoom = errors.New("boom")
