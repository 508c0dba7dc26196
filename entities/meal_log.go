package entities

import (
	"time"

	"github.com/google/uuid"
)

type MealLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID           uuid.UUID `gorm:"index" json:"user_id"`
	Ts               time.Time `gorm:"index" json:"ts"`
	MealSlot         string    `json:"meal_slot"` // "breakfast", "lunch", "dinner", "snack", "unknown"
	Source           string    `json:"source"`    // "text", "voice", "photo", "barcode"
	EnergyKcal       float64   `json:"energy_kcal"`
	ProteinG         float64   `json:"protein_g"`
	CarbsG           float64   `json:"carbs_g"`
	FatG             float64   `json:"fat_g"`
	FiberG           float64   `json:"fiber_g"`
	TefKcal          float64   `json:"tef_kcal"`
	Note             string    `json:"note,omitempty"`
	ClientConfidence float64   `json:"client_confidence"`

	User  *User       `gorm:"foreignKey:UserID"`
	Items []*MealItem `gorm:"foreignKey:MealLogID"`
	Timestamp
}

type MealItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MealLogID   uuid.UUID `gorm:"index" json:"meal_log_id"`
	Position    int       `json:"position"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Qty         float64   `json:"qty"`
	Unit        string    `json:"unit"`
	Grams       float64   `json:"grams"`
	EnergyKcal  float64   `json:"energy_kcal"`
	ProteinG    float64   `json:"protein_g"`
	CarbsG      float64   `json:"carbs_g"`
	FatG        float64   `json:"fat_g"`
	FiberG      float64   `json:"fiber_g"`
	Confidence  float64   `json:"confidence"`
	SourceHints string    `gorm:"type:text" json:"source_hints,omitempty"`

	Timestamp
}
