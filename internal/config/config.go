package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceAPI   = "api"
	SourceMongo = "mongo"
)

type Config struct {
	Port          string
	LogLevel      string
	APIBaseURL    string
	HTTPTimeout   time.Duration
	SessionTTL    time.Duration
	CatalogSource string
	MongoURI      string
	MongoDB       string
}

func LoadConfig() *Config {
	// .env is only present in local development
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		APIBaseURL:    getEnv("CATALOG_API_URL", "https://api.escuelajs.co/api/v1"),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", SourceAPI)),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDB:       getEnv("MONGO_DB", "productCatalog"),
	}

	if cfg.CatalogSource != SourceAPI && cfg.CatalogSource != SourceMongo {
		log.Printf("⚠️ Unknown CATALOG_SOURCE %q, using %q", cfg.CatalogSource, SourceAPI)
		cfg.CatalogSource = SourceAPI
	}
	if cfg.CatalogSource == SourceMongo && cfg.MongoURI == "" {
		log.Println("⚠️ CATALOG_SOURCE=mongo without MONGO_URI, using the API")
		cfg.CatalogSource = SourceAPI
	}
	return cfg
}

// MirrorEnabled reports whether a MongoDB mirror is configured.
func (c *Config) MirrorEnabled() bool {
	return c.MongoURI != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("⚠️ Invalid %s %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
