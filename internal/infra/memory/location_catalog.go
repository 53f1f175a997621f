package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/prash240303/Globetrotter/internal/domain"
)

// LocationLoader fetches the location catalog from a backing store.
type LocationLoader interface {
	LoadLocations(ctx context.Context) ([]domain.Location, error)
}

// LocationCatalog caches the catalog with TTL to avoid repeated DB hits.
type LocationCatalog struct {
	loader LocationLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	locations []domain.Location
	expiresAt time.Time
}

func NewLocationCatalog(loader LocationLoader, ttl time.Duration) *LocationCatalog {
	return &LocationCatalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LocationCatalog) Locations(ctx context.Context) ([]domain.Location, error) {
	now := c.clock()

	c.mu.RLock()
	if c.locations != nil && c.expiresAt.After(now) {
		cached := c.locations
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.locations != nil && c.expiresAt.After(now) {
			cached := c.locations
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()

		locations, err := c.loader.LoadLocations(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.locations = locations
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return locations, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Location), nil
}

// StaticLocationLoader serves a fixed catalog (useful for tests/demos).
type StaticLocationLoader struct {
	locations []domain.Location
}

func NewStaticLocationLoader(locations []domain.Location) *StaticLocationLoader {
	return &StaticLocationLoader{locations: locations}
}

func (l *StaticLocationLoader) LoadLocations(_ context.Context) ([]domain.Location, error) {
	return l.locations, nil
}

func (c *LocationCatalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
