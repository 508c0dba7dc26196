package entities

import (
	"time"

	"github.com/google/uuid"
)

type UserMetrics struct {
	UserID         uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	Tdee           float64   `json:"tdee"`
	ProteinTargetG float64   `json:"protein_target_g"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// DayRollup is the pre-aggregated nutrition total for one user and calendar day.
// Maintained inside the meal save transaction.
type DayRollup struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID `gorm:"uniqueIndex:idx_rollup_user_date" json:"user_id"`
	Date       time.Time `gorm:"type:date;uniqueIndex:idx_rollup_user_date" json:"date"`
	EnergyKcal float64   `json:"energy_kcal"`
	ProteinG   float64   `json:"protein_g"`
	CarbsG     float64   `json:"carbs_g"`
	FatG       float64   `json:"fat_g"`
	FiberG     float64   `json:"fiber_g"`
	MealCount  int       `json:"meal_count"`

	Timestamp
}
