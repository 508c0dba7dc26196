package config

import (
	"Nutrilog-Backend/internal/api/handlers"
	"Nutrilog-Backend/internal/api/routes"
	"Nutrilog-Backend/internal/middleware"
	"Nutrilog-Backend/internal/utils"
	"Nutrilog-Backend/internal/utils/storage"
	"Nutrilog-Backend/pkg/jwt"
	"Nutrilog-Backend/pkg/meal"
	"Nutrilog-Backend/pkg/nutrition"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	mealRepository := meal.NewMealRepository(db)
	foodCacheRepository := nutrition.NewFoodCacheRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	extractionClient := nutrition.NewExtractionClient()
	parserService := nutrition.NewParserService(extractionClient)
	macroClient := nutrition.NewMacroClient()
	resolverService := nutrition.NewResolverService(foodCacheRepository, macroClient)
	followupCache := nutrition.NewFollowupCache()
	mealService := meal.NewMealService(
		mealRepository,
		parserService,
		resolverService,
		followupCache,
		s3,
	)

	// Handler
	mealHandler := handlers.NewMealHandler(mealService, validator)

	// routes
	routesConfig := routes.Config{
		App:         app,
		MealHandler: mealHandler,
		Middleware:  middlewares,
		JWTService:  jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
