package entities

import (
	"time"
)

// FoodCacheEntry keys resolved macros by lowercase(name):lowercase(brand|"generic").
// Expired rows are treated as misses and overwritten in place.
type FoodCacheEntry struct {
	ID         string    `gorm:"primary_key" json:"id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand,omitempty"`
	EnergyKcal float64   `json:"energy_kcal"`
	ProteinG   float64   `json:"protein_g"`
	CarbsG     float64   `json:"carbs_g"`
	FatG       float64   `json:"fat_g"`
	FiberG     float64   `json:"fiber_g"`
	SourceDB   string    `json:"source_db"` // "USDA", "estimated"
	Confidence float64   `json:"confidence"`
	ExpiresAt  time.Time `gorm:"index" json:"expires_at"`

	Timestamp
}
