package meal

import (
	"context"
	"errors"
	"time"

	"Nutrilog-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MealRepository interface {
		SaveMeal(ctx context.Context, mealLog *entities.MealLog, items []*entities.MealItem) (uuid.UUID, error)
		GetLatestMealLog(ctx context.Context, userID string) (*entities.MealLog, error)
		DeleteMeal(ctx context.Context, mealLogID uuid.UUID) error
		GetUserTier(ctx context.Context, userID string) (string, error)
		GetUserMetrics(ctx context.Context, userID string) (*entities.UserMetrics, error)
		GetDayRollup(ctx context.Context, userID string, date time.Time) (*entities.DayRollup, error)
	}

	mealRepository struct {
		db *gorm.DB
	}
)

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

// SaveMeal inserts the meal header, its items, and the day rollup update
// in one transaction. A failed item insert rolls the header back, so no
// orphaned header is ever visible.
func (r *mealRepository) SaveMeal(ctx context.Context, mealLog *entities.MealLog, items []*entities.MealItem) (uuid.UUID, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mealLog).Error; err != nil {
			return err
		}

		for _, item := range items {
			item.MealLogID = mealLog.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		return applyRollupDelta(tx, mealLog, 1)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return mealLog.ID, nil
}

func (r *mealRepository) GetLatestMealLog(ctx context.Context, userID string) (*entities.MealLog, error) {
	var mealLog entities.MealLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ts desc").
		First(&mealLog).Error; err != nil {
		return nil, err
	}
	return &mealLog, nil
}

// DeleteMeal removes items then header and reverses the day rollup, all
// in one transaction.
func (r *mealRepository) DeleteMeal(ctx context.Context, mealLogID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mealLog entities.MealLog
		if err := tx.Where("id = ?", mealLogID).First(&mealLog).Error; err != nil {
			return err
		}

		if err := tx.Where("meal_log_id = ?", mealLogID).Delete(&entities.MealItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", mealLogID).Delete(&entities.MealLog{}).Error; err != nil {
			return err
		}

		return applyRollupDelta(tx, &mealLog, -1)
	})
}

func (r *mealRepository) GetUserTier(ctx context.Context, userID string) (string, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return "", err
	}
	return user.Tier, nil
}

func (r *mealRepository) GetUserMetrics(ctx context.Context, userID string) (*entities.UserMetrics, error) {
	var metrics entities.UserMetrics
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&metrics).Error; err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (r *mealRepository) GetDayRollup(ctx context.Context, userID string, date time.Time) (*entities.DayRollup, error) {
	var rollup entities.DayRollup
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&rollup).Error; err != nil {
		return nil, err
	}
	return &rollup, nil
}

// rollupDay is midnight of the timestamp's calendar day in its own
// location. Lookups and stored Date values must both derive from it, or a
// morning meal in a non-UTC zone lands on the previous day's row.
func rollupDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

// applyRollupDelta adds (sign=1) or removes (sign=-1) one meal's totals
// from the rollup row for the meal's calendar day.
func applyRollupDelta(tx *gorm.DB, mealLog *entities.MealLog, sign float64) error {
	day := rollupDay(mealLog.Ts)

	var rollup entities.DayRollup
	err := tx.Where("user_id = ? AND date = ?", mealLog.UserID, day.Format("2006-01-02")).First(&rollup).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if sign < 0 {
			// deleting a meal whose rollup row is gone; nothing to reverse
			return nil
		}
		rollup = entities.DayRollup{
			ID:     uuid.New(),
			UserID: mealLog.UserID,
			Date:   day,
		}
		if err := tx.Create(&rollup).Error; err != nil {
			return err
		}
	}

	accumulateRollup(&rollup, mealLog, sign)

	return tx.Save(&rollup).Error
}

func accumulateRollup(rollup *entities.DayRollup, mealLog *entities.MealLog, sign float64) {
	rollup.EnergyKcal += sign * mealLog.EnergyKcal
	rollup.ProteinG += sign * mealLog.ProteinG
	rollup.CarbsG += sign * mealLog.CarbsG
	rollup.FatG += sign * mealLog.FatG
	rollup.FiberG += sign * mealLog.FiberG
	rollup.MealCount += int(sign)
	if rollup.MealCount < 0 {
		rollup.MealCount = 0
	}
}
