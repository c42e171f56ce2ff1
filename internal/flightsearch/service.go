package flightsearch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openjaw/openjaw/internal/itinerary"
)

// ServiceConfig holds configuration for the flight search service.
type ServiceConfig struct {
	// Provider executes the actual searches.
	Provider itinerary.Searcher

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache search results (default: 6 hours).
	// Fares move slowly enough that a rerun within the same session
	// should not burn provider quota.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale results on provider errors
	// (default: 24 hours).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often expired entries are removed (default: 30 minutes).
	CleanupInterval time.Duration
}

// Service wraps a search provider with a read-through TTL cache.
// It implements itinerary.Searcher and is safe for concurrent use.
type Service struct {
	provider        itinerary.Searcher
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedOffers
	lastCleanup time.Time
}

type cachedOffers struct {
	offers    []itinerary.Offer
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new flight search service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 24 * time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 30 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedOffers),
	}
}

// Name returns the name of the underlying provider.
func (s *Service) Name() string {
	return s.provider.Name()
}

// Search returns offers for one (origin, destination, date) query.
// Cached results are served while fresh; expiry is purely time-based.
func (s *Service) Search(ctx context.Context, req itinerary.SearchRequest) ([]itinerary.Offer, error) {
	key := cacheKey(req)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", key).
			Int("offers", len(cached.offers)).
			Msg("cache hit for flight search")
		return cached.offers, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, req, key)
}

// fetch queries the provider and updates the cache.
func (s *Service) fetch(ctx context.Context, req itinerary.SearchRequest, key string) ([]itinerary.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check under the write lock so concurrent probes for the
	// same query collapse into one provider call.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.offers, nil
	}

	s.logger.Debug().
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Str("date", req.Date.String()).
		Str("provider", s.provider.Name()).
		Msg("fetching offers from provider")

	offers, err := s.provider.Search(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Str("date", req.Date.String()).
			Msg("flight search failed")

		// Stale-if-error: an old fare list beats no fare list.
		if cached, ok := s.cache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", key).
					Msg("serving stale flight offers due to provider error")
				return cached.offers, nil
			}
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedOffers{
		offers:    offers,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", key).
		Int("offers", len(offers)).
		Msg("cached flight search response")

	s.cleanupIfNeeded()

	return offers, nil
}

// cacheKey identifies one search query. Passenger counts are part of
// the key because providers price per composition.
func cacheKey(req itinerary.SearchRequest) string {
	return fmt.Sprintf("%s:%s:%s:%da%dc:%s",
		req.Origin, req.Destination, req.Date, req.Adults, req.Children, req.Currency)
}

// cleanupIfNeeded removes entries past the stale-if-error window.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired flight search cache entries")
	}
}

// InvalidateCache clears all cached results.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedOffers)
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     s.provider.Name(),
	}
}
