package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(config *Config) (*Limiter, *fakeClock) {
	clock := newFakeClock()
	l := NewLimiter(config)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_AllowsUpToBurst(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, info.RetryAfter, 6*time.Second)
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 60; i++ {
		allowed, _ := l.Allow("client", "/test", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client", "/test", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("client", "/test", "GET")
	assert.True(t, allowed, "one token refills per second")

	allowed, _ = l.Allow("client", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ResetTime(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: 10 * time.Second})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		l.Allow("client", "/test", "GET")
	}
	_, info := l.Allow("client", "/test", "GET")

	assert.Equal(t, 4, info.Remaining)
	assert.Equal(t, clock.Now().Add(6*time.Second), info.ResetTime)
}

func TestLimiter_ClientsAndEndpointsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		EndpointConfigs: []EndpointConfig{
			{Path: "/x", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1},
			{Path: "/y", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	defer l.Stop()

	allowed, _ := l.Allow("a", "/x", "GET")
	require.True(t, allowed)
	allowed, _ = l.Allow("a", "/x", "GET")
	require.False(t, allowed)

	allowed, _ = l.Allow("b", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/y", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/x", "POST")
	assert.True(t, allowed)
}

func TestLimiter_UnconfiguredPathsShareOneBucket(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("client", fmt.Sprintf("/assets/file-%d.js", i), "GET")
		require.True(t, allowed)
	}
	l.Allow("client", ExtractPath, "POST")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 2)
	assert.Contains(t, l.buckets, "client:*:GET")
	assert.Contains(t, l.buckets, "client:"+ExtractPath+":POST")
}

func TestLimiter_PrefixEndpointSharesBucket(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []EndpointConfig{{Path: "/static/", Method: "GET", Limit: 2, Window: time.Minute, Burst: 2}},
	})
	defer l.Stop()

	allowed, _ := l.Allow("client", "/static/a.css", "GET")
	require.True(t, allowed)
	allowed, _ = l.Allow("client", "/static/b.css", "GET")
	require.True(t, allowed)
	allowed, _ = l.Allow("client", "/static/c.css", "GET")
	assert.False(t, allowed, "distinct paths under one prefix draw from the same bucket")
}

func TestLimiter_WhitelistBlacklistDisabled(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)

	disabled, _ := newTestLimiter(&Config{Enabled: false})
	for i := 0; i < 5; i++ {
		allowed, info := disabled.Allow("10.0.0.2", "/x", "GET")
		assert.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_ModelEndpoints(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("client", GeneratePath, "POST")
		require.True(t, allowed)
		assert.Equal(t, 20, info.Limit)
	}
	allowed, _ := l.Allow("client", GeneratePath, "POST")
	assert.False(t, allowed, "burst of 3 exhausted")

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("client", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})
	defer l.Stop()

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := l.Allow("shared", "/x", "GET"); ok {
					allowedCount.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowedCount.Load())
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/x", "GET")
	}
	clock.Advance(30 * time.Minute)
	l.Allow("client-0", "/x", "GET")
	clock.Advance(45 * time.Minute)

	l.cleanupBuckets()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "client-0:*:GET")
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/extract", Method: "POST", Limit: 1},
		{Path: "/api/logos/", Method: "POST", Limit: 2},
		{Path: "/api/logos/package", Method: "POST", Limit: 3},
	}

	assert.Equal(t, 1, MatchEndpoint("/api/extract", "POST", configs).Limit)
	assert.Equal(t, 3, MatchEndpoint("/api/logos/package", "POST", configs).Limit, "exact beats prefix")
	assert.Equal(t, 2, MatchEndpoint("/api/logos/other", "POST", configs).Limit)
	assert.Nil(t, MatchEndpoint("/api/extract", "GET", configs))
	assert.Nil(t, MatchEndpoint("/unknown", "POST", configs))
	assert.Zero(t, MatchEndpoint("/health", "GET", configs).Limit)
}

func TestLoadConfigFrom(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":     "50",
		"RATE_LIMIT_DEFAULT_WINDOW":    "30s",
		"RATE_LIMIT_EXTRACT_PER_HOUR":  "7",
		"RATE_LIMIT_GENERATE_PER_HOUR": "not-a-number",
		"RATE_LIMIT_WHITELIST":         "10.0.0.1, 10.0.0.2,",
	}
	cfg := LoadConfigFrom(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)
	assert.Equal(t, 7, MatchEndpoint(ExtractPath, "POST", cfg.EndpointConfigs).Limit)
	assert.Equal(t, 20, MatchEndpoint(GeneratePath, "POST", cfg.EndpointConfigs).Limit)
	assert.Equal(t, 20, MatchEndpoint(RunPath, "POST", cfg.EndpointConfigs).Limit)

	disabled := LoadConfigFrom(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})
	assert.False(t, disabled.Enabled)
}
