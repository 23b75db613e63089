package providers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
)

const cacheKeyPrefix = "venues:"

type refreshKey struct{}

// WithCacheRefresh marks ctx so cached lookups are fetched from upstream and
// rewritten, restarting their TTL, instead of being served from the cache.
func WithCacheRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshing(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// Cache is the byte store backing lookup caching. Implementations must be safe
// for concurrent use because the aggregator fans out.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachingDirectory serves club and court listings from a read-through cache.
// Slot availability is always fetched live.
type cachingDirectory struct {
	next     VenueDirectory
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
	provider string
}

// NewCachingDirectory wraps next with a read-through cache for ListClubs and ListCourts.
func NewCachingDirectory(next VenueDirectory, cache Cache, ttl time.Duration, logger *slog.Logger, provider string) VenueDirectory {
	return &cachingDirectory{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		provider: provider,
	}
}

func (d *cachingDirectory) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	return readThrough(ctx, d, clubsCacheKey(placeID), func() ([]venues.Club, error) {
		return d.next.ListClubs(ctx, placeID)
	})
}

func (d *cachingDirectory) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	return readThrough(ctx, d, courtsCacheKey(clubID), func() ([]venues.Court, error) {
		return d.next.ListCourts(ctx, clubID)
	})
}

func (d *cachingDirectory) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	return d.next.ListAvailableSlots(ctx, clubID, courtID, date)
}

func clubsCacheKey(placeID string) string {
	return cacheKeyPrefix + "clubs:" + strings.TrimSpace(placeID)
}

func courtsCacheKey(clubID int) string {
	return cacheKeyPrefix + "courts:" + strconv.Itoa(clubID)
}

// readThrough never fails because of the cache itself: cache errors are logged
// and the upstream answer is used.
func readThrough[T any](ctx context.Context, d *cachingDirectory, key string, fetch func() (T, error)) (T, error) {
	if !refreshing(ctx) {
		if hit, ok := lookup[T](ctx, d, key); ok {
			return hit, nil
		}
	}

	fresh, err := fetch()
	if err != nil {
		return fresh, err
	}
	encoded, err := json.Marshal(fresh)
	if err != nil {
		logWithProvider(ctx, d.logger, slog.LevelWarn, d.provider, "cache encode failed", "key", key, "error", err)
		return fresh, nil
	}
	if err := d.cache.Set(ctx, key, encoded, d.ttl); err != nil {
		logWithProvider(ctx, d.logger, slog.LevelWarn, d.provider, "cache write failed", "key", key, "error", err)
	}
	return fresh, nil
}

func lookup[T any](ctx context.Context, d *cachingDirectory, key string) (T, bool) {
	var out T
	raw, hit, err := d.cache.Get(ctx, key)
	if err != nil {
		logWithProvider(ctx, d.logger, slog.LevelWarn, d.provider, "cache read failed", "key", key, "error", err)
		return out, false
	}
	if !hit {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		logWithProvider(ctx, d.logger, slog.LevelWarn, d.provider, "cache entry undecodable", "key", key, "error", err)
		return out, false
	}
	logWithProvider(ctx, d.logger, slog.LevelDebug, d.provider, "cache hit", "key", key)
	return out, true
}
