package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

// memoryCache is an in-process CacheRepository used across the service tests.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var svc *CacheService
	assert.False(t, svc.Enabled())

	svc = NewCacheService(nil, nil, 0, nil, false)
	assert.False(t, svc.Enabled())

	hit, err := svc.Get(context.Background(), "k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	require.NoError(t, svc.Invalidate(context.Background(), "k*"))
}

func TestCacheServiceRoundTrip(t *testing.T) {
	svc := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "greeting", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "greeting", "hello", 0))

	hit, err = svc.Get(context.Background(), "greeting", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "hello", out)
}

func TestCacheServiceInvalidatePattern(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	require.NoError(t, svc.Set(context.Background(), "dashboard:stats:03-2024:all", 1, 0))
	require.NoError(t, svc.Set(context.Background(), "other:key", 2, 0))

	require.NoError(t, svc.Invalidate(context.Background(), "dashboard:*"))
	assert.NotContains(t, repo.entries, "dashboard:stats:03-2024:all")
	assert.Contains(t, repo.entries, "other:key")
}
