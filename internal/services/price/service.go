// Package price looks up market prices with provider fallback and a
// short-lived in-memory cache.
package price

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
)

// DefaultTTL is how long a fetched price stays fresh.
const DefaultTTL = 5 * time.Minute

type cachedPrice struct {
	value     float64
	fetchedAt time.Time
}

// Service resolves prices through a primary provider with a fallback,
// caching results per (symbol, asset type). A lookup never returns an error:
// when both providers fail the result is (0, false) and the caller decides
// what to do without a price.
type Service struct {
	primary  interfaces.PriceClient
	fallback interfaces.PriceClient
	logger   *common.Logger
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cachedPrice
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the cache expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a price service. fallback may be nil.
func NewService(primary, fallback interfaces.PriceClient, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		ttl:      DefaultTTL,
		now:      time.Now,
		cache:    make(map[string]cachedPrice),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LatestPrice returns the current price for symbol, serving from cache when
// the entry is younger than the TTL. Expiry is checked lazily on read.
func (s *Service) LatestPrice(ctx context.Context, symbol, assetType string) (float64, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, false
	}
	key := symbol + ":" + assetType

	s.mu.Lock()
	if entry, ok := s.cache[key]; ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		s.mu.Unlock()
		return entry.value, true
	}
	s.mu.Unlock()

	value, ok := s.fetch(ctx, symbol, assetType)
	if !ok {
		return 0, false
	}

	s.mu.Lock()
	s.cache[key] = cachedPrice{value: value, fetchedAt: s.now()}
	s.mu.Unlock()

	return value, true
}

func (s *Service) fetch(ctx context.Context, symbol, assetType string) (float64, bool) {
	if s.primary != nil {
		value, err := s.primary.LatestPrice(ctx, symbol, assetType)
		if err == nil && value > 0 {
			return value, true
		}
		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("primary price provider failed")
		}
	}

	if s.fallback != nil {
		value, err := s.fallback.LatestPrice(ctx, symbol, assetType)
		if err == nil && value > 0 {
			return value, true
		}
		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("fallback price provider failed")
		}
	}

	s.logger.Warn().Str("symbol", symbol).Str("asset_type", assetType).Msg("no price available")
	return 0, false
}

// Prune drops expired cache entries. Called from the scheduler so the cache
// does not grow unbounded between lookups.
func (s *Service) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.cache {
		if now.Sub(entry.fetchedAt) >= s.ttl {
			delete(s.cache, key)
			removed++
		}
	}
	return removed
}
