package nutrition

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/entities"
)

// cacheTTL is the forward expiry written on a cache-miss resolution.
const cacheTTL = 30 * 24 * time.Hour

type (
	// ResolverService turns a food name into macro candidates. It never
	// fails: cache, then the external nutrition service, then a keyword
	// estimate of last resort.
	ResolverService interface {
		ResolveFoodItem(ctx context.Context, name, brand string) domain.FoodResolution
	}

	resolverService struct {
		cacheRepository FoodCacheRepository
		macroClient     MacroClient
		now             func() time.Time
	}
)

func NewResolverService(cacheRepository FoodCacheRepository, macroClient MacroClient) ResolverService {
	return &resolverService{
		cacheRepository: cacheRepository,
		macroClient:     macroClient,
		now:             time.Now,
	}
}

// CacheKey builds the food cache id for a name and optional brand.
func CacheKey(name, brand string) string {
	if brand == "" {
		brand = "generic"
	}
	return fmt.Sprintf("%s:%s", strings.ToLower(name), strings.ToLower(brand))
}

func (s *resolverService) ResolveFoodItem(ctx context.Context, name, brand string) domain.FoodResolution {
	key := CacheKey(name, brand)

	if cached, err := s.cacheRepository.GetFresh(ctx, key, s.now()); err == nil {
		return domain.FoodResolution{
			Candidates: []domain.FoodCandidate{{
				Name:       cached.Name,
				Brand:      cached.Brand,
				Macros:     domain.Macros{Kcal: cached.EnergyKcal, ProteinG: cached.ProteinG, CarbsG: cached.CarbsG, FatG: cached.FatG, FiberG: cached.FiberG},
				Confidence: cached.Confidence,
			}},
			CacheHit: true,
			SourceDB: domain.SourceCache,
		}
	}

	macros, confidence, err := s.macroClient.FetchFoodMacros(ctx, name)
	if err != nil || macros.Kcal <= 0 {
		if err != nil {
			log.Printf("food resolution degraded to estimate for %q: %v", name, err)
		}
		estimated, estConfidence := EstimateMacros(name)
		return domain.FoodResolution{
			Candidates: []domain.FoodCandidate{{
				Name:       name,
				Brand:      brand,
				Macros:     estimated,
				Confidence: estConfidence,
			}},
			CacheHit: false,
			SourceDB: domain.SourceEstimated,
		}
	}

	entry := &entities.FoodCacheEntry{
		ID:         key,
		Name:       name,
		Brand:      brand,
		EnergyKcal: macros.Kcal,
		ProteinG:   macros.ProteinG,
		CarbsG:     macros.CarbsG,
		FatG:       macros.FatG,
		FiberG:     macros.FiberG,
		SourceDB:   domain.SourceExternal,
		Confidence: confidence,
		ExpiresAt:  s.now().Add(cacheTTL),
	}
	if err := s.cacheRepository.Put(ctx, entry); err != nil {
		log.Printf("food cache write failed for %q: %v", key, err)
	}

	return domain.FoodResolution{
		Candidates: []domain.FoodCandidate{{
			Name:       name,
			Brand:      brand,
			Macros:     macros,
			Confidence: confidence,
		}},
		CacheHit: false,
		SourceDB: domain.SourceExternal,
	}
}

// EstimateMacros maps a food name to a rough per-100g macro vector based on
// its dominant macro keywords.
func EstimateMacros(foodName string) (domain.Macros, float64) {
	lower := strings.ToLower(foodName)

	if containsAny(lower, "chicken", "beef", "fish", "egg") {
		return domain.Macros{Kcal: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6}, 0.65
	}
	if containsAny(lower, "rice", "pasta", "bread", "potato") {
		return domain.Macros{Kcal: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3}, 0.65
	}
	if containsAny(lower, "avocado", "nuts", "cheese", "oil") {
		return domain.Macros{Kcal: 160, ProteinG: 2, CarbsG: 9, FatG: 15}, 0.65
	}

	return domain.Macros{Kcal: 150, ProteinG: 10, CarbsG: 20, FatG: 5}, 0.5
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
