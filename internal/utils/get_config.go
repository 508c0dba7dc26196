package utils

import (
	"gopkg.in/yaml.v2"
	"log"
	"os"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Meal extraction LLM
	ExtractionAPIURL string `yaml:"EXTRACTION_API_URL"`
	ExtractionAPIKey string `yaml:"EXTRACTION_API_KEY"`
	ExtractionModel  string `yaml:"EXTRACTION_MODEL"`

	// External nutrition database
	NutritionAPIURL string `yaml:"NUTRITION_API_URL"`
	NutritionAPIKey string `yaml:"NUTRITION_API_KEY"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSRegion    string `yaml:"AWS_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string `yaml:"AWS_SECRET_ACCESS_KEY"`

	AppURL string `yaml:"APP_URL"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	// Keep JWT_SECRET reachable via os.Getenv for the auth middleware.
	os.Setenv("JWT_SECRET", config.JWTSecret)
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "EXTRACTION_API_URL":
		return config.ExtractionAPIURL
	case "EXTRACTION_API_KEY":
		return config.ExtractionAPIKey
	case "EXTRACTION_MODEL":
		return config.ExtractionModel
	case "NUTRITION_API_URL":
		return config.NutritionAPIURL
	case "NUTRITION_API_KEY":
		return config.NutritionAPIKey
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_REGION":
		return config.AWSRegion
	case "AWS_ACCESS_KEY_ID":
		return config.AWSAccessKey
	case "AWS_SECRET_ACCESS_KEY":
		return config.AWSSecretKey
	case "APP_URL":
		return config.AppURL
	default:
		return ""
	}
}
