package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/deposit-service/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	keyRateCacheKey = "cbr:key_rate"
	keyRateTTL      = 12 * time.Hour
)

// KeyRateFetcher retrieves the central bank key rate
type KeyRateFetcher interface {
	KeyRate(ctx context.Context) (float64, error)
}

// RateService serves the key rate from cache, falling back to the central bank
type RateService struct {
	fetcher KeyRateFetcher
	cache   repository.CacheRepository
	log     *logrus.Logger
}

// NewRateService creates a RateService
func NewRateService(fetcher KeyRateFetcher, cache repository.CacheRepository, log *logrus.Logger) *RateService {
	return &RateService{fetcher: fetcher, cache: cache, log: log}
}

// KeyRate returns the cached key rate, fetching it when the cache is empty
func (s *RateService) KeyRate(ctx context.Context) (float64, error) {
	cached, ok, err := s.cache.Get(ctx, keyRateCacheKey)
	if err != nil {
		s.log.Warnf("Key rate cache unavailable: %v", err)
	}
	if ok {
		rate, err := strconv.ParseFloat(cached, 64)
		if err == nil {
			return rate, nil
		}
		s.log.Warnf("Discarding malformed cached key rate %q", cached)
	}
	return s.Refresh(ctx)
}

// Refresh fetches the key rate and stores it in the cache
func (s *RateService) Refresh(ctx context.Context) (float64, error) {
	rate, err := s.fetcher.KeyRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get key rate: %w", err)
	}
	if err := s.cache.Set(ctx, keyRateCacheKey, strconv.FormatFloat(rate, 'f', -1, 64), keyRateTTL); err != nil {
		s.log.Warnf("Failed to cache key rate: %v", err)
	}
	return rate, nil
}

// ScheduleRefresh registers a cron job refreshing the key rate on schedule
// (standard cron syntax or descriptors such as "@every 6h"). The caller starts and stops the scheduler.
func (s *RateService) ScheduleRefresh(c *cron.Cron, schedule string) (cron.EntryID, error) {
	id, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			s.log.Errorf("Scheduled key rate refresh failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid key rate refresh schedule %q: %w", schedule, err)
	}
	return id, nil
}
