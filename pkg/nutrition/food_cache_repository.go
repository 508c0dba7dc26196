package nutrition

import (
	"context"
	"time"

	"Nutrilog-Backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	FoodCacheRepository interface {
		GetFresh(ctx context.Context, key string, now time.Time) (*entities.FoodCacheEntry, error)
		Put(ctx context.Context, entry *entities.FoodCacheEntry) error
	}

	foodCacheRepository struct {
		db *gorm.DB
	}
)

func NewFoodCacheRepository(db *gorm.DB) FoodCacheRepository {
	return &foodCacheRepository{db: db}
}

// GetFresh returns the entry only while it has not expired. Expired rows
// stay in place and are overwritten by the next Put for the same key.
func (r *foodCacheRepository) GetFresh(ctx context.Context, key string, now time.Time) (*entities.FoodCacheEntry, error) {
	var entry entities.FoodCacheEntry
	if err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", key, now).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *foodCacheRepository) Put(ctx context.Context, entry *entities.FoodCacheEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entry).Error
}
