// Package cache memoizes derived graph views.
//
// A [Views] cache maps a canonical view key to the filtered graph computed
// for it. The cache is bounded: once it holds [DefaultCapacity] views (or the
// capacity given to [NewViews]) the least recently used view is evicted.
// Concurrent lookups of the same missing key compute the view once and share
// the result.
//
// Keys are opaque to the cache. Callers derive them with [Key] so that
// equivalent requests map to the same entry.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/graph"
	"github.com/matzehuels/beanchain/pkg/observability"
)

// DefaultCapacity is the number of views kept when no capacity is configured.
const DefaultCapacity = 32

const keyType = "view"

// Views is a bounded, concurrency-safe cache of filtered graphs.
type Views struct {
	entries *lru.Cache[string, *graph.Graph]
	flight  singleflight.Group
}

// NewViews creates a view cache holding at most capacity views.
// A capacity of zero selects [DefaultCapacity].
func NewViews(capacity int) (*Views, error) {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cache capacity must be positive, got %d", capacity)
	}
	entries, err := lru.NewWithEvict(capacity, func(string, *graph.Graph) {
		observability.Cache().OnCacheEvict(context.Background(), keyType)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create view cache")
	}
	return &Views{entries: entries}, nil
}

// Get returns the view stored under key, calling compute to build it when
// absent. Concurrent calls for the same absent key share a single compute
// call. compute must not return nil.
func (v *Views) Get(ctx context.Context, key string, compute func() *graph.Graph) *graph.Graph {
	if g, ok := v.entries.Get(key); ok {
		observability.Cache().OnCacheHit(ctx, keyType)
		return g
	}

	res, _, _ := v.flight.Do(key, func() (any, error) {
		// Another caller may have stored the view between the miss above
		// and joining the flight.
		if g, ok := v.entries.Get(key); ok {
			observability.Cache().OnCacheHit(ctx, keyType)
			return g, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
		g := compute()
		v.entries.Add(key, g)
		observability.Cache().OnCacheSet(ctx, keyType, g.NodeCount())
		return g, nil
	})
	return res.(*graph.Graph)
}

// Peek returns the view stored under key without updating its recency.
func (v *Views) Peek(key string) (*graph.Graph, bool) {
	return v.entries.Peek(key)
}

// Len returns the number of cached views.
func (v *Views) Len() int { return v.entries.Len() }

// Purge drops every cached view.
func (v *Views) Purge() { v.entries.Purge() }
