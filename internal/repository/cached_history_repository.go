package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yourusername/pace-bias/internal/models"
)

// CachedHistoryRepository memoizes passage lookups. A horse's history as of
// a given cutoff never changes, so entries are safe to reuse for the whole
// TTL; the cutoff is part of the cache key so lookups for different race
// dates can never serve each other's data.
type CachedHistoryRepository struct {
	inner HistoryRepository
	cache *cache.Cache
}

// NewCachedHistoryRepository wraps a history repository with a TTL cache.
func NewCachedHistoryRepository(inner HistoryRepository, ttl time.Duration) *CachedHistoryRepository {
	return &CachedHistoryRepository{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

// PassagesBefore serves cached horses and batches the rest through the
// underlying repository. Misses are cached too, so a horse with no history
// costs one query, not one per race.
func (r *CachedHistoryRepository) PassagesBefore(ctx context.Context, horseIDs []string, cutoff models.YMD) (map[string][]string, error) {
	out := make(map[string][]string, len(horseIDs))
	var missing []string
	for _, id := range horseIDs {
		if v, ok := r.cache.Get(historyKey(id, cutoff)); ok {
			if passages := v.([]string); len(passages) > 0 {
				out[id] = passages
			}
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := r.inner.PassagesBefore(ctx, missing, cutoff)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		passages := fetched[id]
		r.cache.Set(historyKey(id, cutoff), passages, cache.DefaultExpiration)
		if len(passages) > 0 {
			out[id] = passages
		}
	}
	return out, nil
}

func historyKey(id string, cutoff models.YMD) string {
	return id + "@" + cutoff.String()
}
