package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type PaymentConfig struct {
	MidtransServerKey string
	// Credits granted per purchased pack, keyed by the Snap item id sent
	// at checkout. Kept as config so packs can change without a deploy.
	SmallPackCredits  int
	LargePackCredits  int
	SmallPackPriceIDR int64
	LargePackPriceIDR int64
}

type AIConfig struct {
	Provider      string // "ollama" or "gemini"
	OllamaBaseURL string
	OllamaModel   string
	GeminiAPIKey  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Payment: PaymentConfig{
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			SmallPackCredits:  getEnvAsInt("CREDIT_PACK_SMALL", 50),
			LargePackCredits:  getEnvAsInt("CREDIT_PACK_LARGE", 250),
			SmallPackPriceIDR: int64(getEnvAsInt("CREDIT_PACK_SMALL_PRICE", 75000)),
			LargePackPriceIDR: int64(getEnvAsInt("CREDIT_PACK_LARGE_PRICE", 300000)),
		},
		Ai: AIConfig{
			Provider:      getEnv("AI_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
			GeminiAPIKey:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
