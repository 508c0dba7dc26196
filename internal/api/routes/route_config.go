package routes

import (
	"Nutrilog-Backend/internal/api/handlers"
	"Nutrilog-Backend/internal/middleware"
	"Nutrilog-Backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App         *fiber.App
	MealHandler handlers.MealHandler
	Middleware  middleware.Middleware
	JWTService  jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Meals()
	c.GuestRoute()
}

func (c *Config) Meals() {
	meals := c.App.Group("/api/v1/meals", c.Middleware.AuthMiddleware(c.JWTService))

	// Analysis pipeline: nothing below /analyze persists data
	meals.Post("/analyze", c.MealHandler.AnalyzeMeal)
	meals.Post("/analyze/photo", c.MealHandler.UploadMealPhoto)
	meals.Post("/log-followup", c.MealHandler.LogFollowup)
	meals.Post("/discussion", c.MealHandler.RememberDiscussion)

	// Persistence
	meals.Post("", c.MealHandler.ConfirmMeal)
	meals.Delete("/last", c.MealHandler.UndoLastMeal)
	meals.Get("/today", c.MealHandler.GetDailyTotals)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
