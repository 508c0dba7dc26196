package migration

import (
	entities2 "Nutrilog-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities2.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.UserMetrics{}); err != nil {
		log.Fatalf("Error migrating user metrics database: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities2.MealLog{}); err != nil {
		log.Fatalf("Error migrating meal log database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.MealItem{}); err != nil {
		log.Fatalf("Error migrating meal item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.DayRollup{}); err != nil {
		log.Fatalf("Error migrating day rollup database: %v", err)
		return err
	}

	if err := db.AutoMigrate(&entities2.FoodCacheEntry{}); err != nil {
		log.Fatalf("Error migrating food cache database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
