package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rovery/updatefeed/pkg/common"
	"github.com/rovery/updatefeed/pkg/index"
	"golang.org/x/sync/singleflight"
)

const DefaultRefreshInterval = 15 * time.Minute

// The settings with which a release cache is created.
type CacheSettings struct {
	// The logger to use for the cache.
	Logger *slog.Logger
	// The source to fetch releases from.
	Source common.IReleaseSource
	// How long a fetched state stays fresh. Defaults to DefaultRefreshInterval.
	RefreshInterval time.Duration
}

// ReleaseCache owns the indexed release state and refreshes it from its
// source when it is outdated. It is safe for concurrent use.
type ReleaseCache struct {
	logger          *slog.Logger
	source          common.IReleaseSource
	refreshInterval time.Duration

	refreshGroup singleflight.Group
	mutex        sync.RWMutex
	state        *common.CacheState
}

func NewReleaseCache(settings *CacheSettings) *ReleaseCache {
	refreshInterval := settings.RefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	return &ReleaseCache{
		logger:          settings.Logger.With(slog.String("component", "cache")),
		source:          settings.Source,
		refreshInterval: refreshInterval,
	}
}

// Get returns the current cache state, refreshing it first when it is outdated
// or was never populated. Concurrent callers that observe an outdated state
// coalesce onto a single refresh and share its outcome. When a refresh fails
// but a previously fetched state exists, that stale state is served instead of
// the error.
func (c *ReleaseCache) Get(ctx context.Context) (*common.CacheState, error) {
	if state := c.freshState(); state != nil {
		return state, nil
	}
	value, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		// The state might have been refreshed while this caller was queued
		if state := c.freshState(); state != nil {
			return state, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		c.mutex.RLock()
		state := c.state
		c.mutex.RUnlock()
		if state != nil {
			c.logger.Warn(fmt.Sprintf("Refresh failed, serving the previous state: %v", err))
			return state, nil
		}
		return nil, err
	}
	return value.(*common.CacheState), nil
}

// IsOutdated reports whether the next call to Get will trigger a refresh.
func (c *ReleaseCache) IsOutdated() bool {
	return c.freshState() == nil
}

func (c *ReleaseCache) freshState() *common.CacheState {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.state == nil {
		return nil
	}
	if time.Since(c.state.LastUpdate) > c.refreshInterval {
		return nil
	}
	return c.state
}

func (c *ReleaseCache) refresh(ctx context.Context) (*common.CacheState, error) {
	rawReleases, err := c.source.FetchReleases(ctx)
	if err != nil {
		// The previous state and its timestamp stay untouched so the next call retries
		return nil, err
	}
	state := &common.CacheState{
		Releases:   index.Index(rawReleases),
		LastUpdate: time.Now(),
	}
	c.mutex.Lock()
	c.state = state
	c.mutex.Unlock()
	c.logger.Debug(fmt.Sprintf("Refreshed the cache with %d environment(s)", len(state.Releases)))
	return state, nil
}
