package nutrition

import (
	"context"
	"errors"
	"testing"
	"time"

	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCacheRepository struct {
	entries map[string]*entities.FoodCacheEntry
	puts    []*entities.FoodCacheEntry
}

func newMemoryCacheRepository() *memoryCacheRepository {
	return &memoryCacheRepository{entries: make(map[string]*entities.FoodCacheEntry)}
}

func (r *memoryCacheRepository) GetFresh(_ context.Context, key string, now time.Time) (*entities.FoodCacheEntry, error) {
	entry, ok := r.entries[key]
	if !ok || !entry.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (r *memoryCacheRepository) Put(_ context.Context, entry *entities.FoodCacheEntry) error {
	r.entries[entry.ID] = entry
	r.puts = append(r.puts, entry)
	return nil
}

type stubMacroClient struct {
	macros     domain.Macros
	confidence float64
	err        error
	calls      int
}

func (c *stubMacroClient) FetchFoodMacros(_ context.Context, _ string) (domain.Macros, float64, error) {
	c.calls++
	return c.macros, c.confidence, c.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolveFoodItem_CacheHit(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCacheRepository()
	cache.entries["chicken breast:generic"] = &entities.FoodCacheEntry{
		ID:         "chicken breast:generic",
		Name:       "chicken breast",
		EnergyKcal: 165,
		ProteinG:   31,
		FatG:       3.6,
		Confidence: 0.9,
		ExpiresAt:  now.Add(time.Hour),
	}
	client := &stubMacroClient{}
	service := &resolverService{cacheRepository: cache, macroClient: client, now: fixedClock(now)}

	got := service.ResolveFoodItem(context.Background(), "Chicken Breast", "")
	require.Len(t, got.Candidates, 1)
	assert.True(t, got.CacheHit)
	assert.Equal(t, domain.SourceCache, got.SourceDB)
	assert.Equal(t, 165.0, got.Candidates[0].Macros.Kcal)
	assert.Zero(t, client.calls, "cache hit must not call the nutrition service")
}

func TestResolveFoodItem_ExpiredEntryRefetches(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCacheRepository()
	cache.entries["rice:generic"] = &entities.FoodCacheEntry{
		ID:        "rice:generic",
		Name:      "rice",
		ExpiresAt: now.Add(-time.Second),
	}
	client := &stubMacroClient{
		macros:     domain.Macros{Kcal: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3},
		confidence: 0.85,
	}
	service := &resolverService{cacheRepository: cache, macroClient: client, now: fixedClock(now)}

	got := service.ResolveFoodItem(context.Background(), "rice", "")
	assert.False(t, got.CacheHit)
	assert.Equal(t, domain.SourceExternal, got.SourceDB)
	assert.Equal(t, 1, client.calls)

	// refetch refreshes the cache entry with a forward expiry
	require.Len(t, cache.puts, 1)
	assert.Equal(t, now.Add(cacheTTL), cache.puts[0].ExpiresAt)
	assert.Equal(t, 130.0, cache.puts[0].EnergyKcal)
}

func TestResolveFoodItem_EntryExpiringExactlyNowIsStale(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCacheRepository()
	cache.entries["oats:generic"] = &entities.FoodCacheEntry{
		ID:        "oats:generic",
		Name:      "oats",
		ExpiresAt: now,
	}
	client := &stubMacroClient{macros: domain.Macros{Kcal: 389, ProteinG: 17, CarbsG: 66, FatG: 7}, confidence: 0.8}
	service := &resolverService{cacheRepository: cache, macroClient: client, now: fixedClock(now)}

	got := service.ResolveFoodItem(context.Background(), "oats", "")
	assert.False(t, got.CacheHit)
	assert.Equal(t, 1, client.calls)
}

func TestResolveFoodItem_ServiceFailureDegradesToEstimate(t *testing.T) {
	now := time.Now()
	cache := newMemoryCacheRepository()
	client := &stubMacroClient{err: errors.New("service unavailable")}
	service := &resolverService{cacheRepository: cache, macroClient: client, now: fixedClock(now)}

	got := service.ResolveFoodItem(context.Background(), "grilled chicken", "")
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, domain.SourceEstimated, got.SourceDB)
	assert.Equal(t, 31.0, got.Candidates[0].Macros.ProteinG)
	assert.Equal(t, 0.65, got.Candidates[0].Confidence)
	assert.Empty(t, cache.puts, "estimates are never cached")
}

func TestResolveFoodItem_ZeroKcalResponseTreatedAsMiss(t *testing.T) {
	cache := newMemoryCacheRepository()
	client := &stubMacroClient{macros: domain.Macros{}, confidence: 0.9}
	service := &resolverService{cacheRepository: cache, macroClient: client, now: time.Now}

	got := service.ResolveFoodItem(context.Background(), "mystery stew", "")
	assert.Equal(t, domain.SourceEstimated, got.SourceDB)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "chicken breast:generic", CacheKey("Chicken Breast", ""))
	assert.Equal(t, "greek yogurt:fage", CacheKey("Greek Yogurt", "Fage"))
}

func TestEstimateMacros(t *testing.T) {
	tests := []struct {
		name           string
		food           string
		wantKcal       float64
		wantConfidence float64
	}{
		{"protein keyword", "chicken soup", 165, 0.65},
		{"carb keyword", "fried rice", 130, 0.65},
		{"fat keyword", "avocado toast", 160, 0.65},
		{"generic fallback", "mystery casserole", 150, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			macros, confidence := EstimateMacros(tt.food)
			assert.Equal(t, tt.wantKcal, macros.Kcal)
			assert.Equal(t, tt.wantConfidence, confidence)
		})
	}
}
