package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "exchange:quote:"

// RedisQuoteStore хранит зафиксированные котировки в redis, TTL ставит сам redis
type RedisQuoteStore struct {
	client redis.UniversalClient
}

func NewRedisQuoteStore(client redis.UniversalClient) *RedisQuoteStore {
	return &RedisQuoteStore{client: client}
}

func (s *RedisQuoteStore) Save(ctx context.Context, quote *domain.LockedQuote, ttl time.Duration) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	return s.client.Set(ctx, quoteKeyPrefix+quote.ID, data, ttl).Err()
}

func (s *RedisQuoteStore) Get(ctx context.Context, id string) (*domain.LockedQuote, error) {
	data, err := s.client.Get(ctx, quoteKeyPrefix+id).Bytes()
	return decodeQuote(data, err)
}

// Take атомарно достает и удаляет котировку, повторно ее использовать нельзя
func (s *RedisQuoteStore) Take(ctx context.Context, id string) (*domain.LockedQuote, error) {
	data, err := s.client.GetDel(ctx, quoteKeyPrefix+id).Bytes()
	return decodeQuote(data, err)
}

func decodeQuote(data []byte, err error) (*domain.LockedQuote, error) {
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	var quote domain.LockedQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &quote, nil
}
