package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	// Empty KafkaBrokers disables notification fan-out.
	KafkaBrokers           []string
	KafkaNotificationTopic string

	// IANA zone of the restaurant business day, used for order numbering.
	TimeZone string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:                 os.Getenv("DB_HOST"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBSSLMode:              getEnv("DB_SSLMODE", "disable"),
		AppPort:                getEnv("APP_PORT", "8080"),
		AppEnv:                 os.Getenv("APP_ENV"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		KafkaBrokers:           splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaNotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "order-notifications"),
		TimeZone:               getEnv("APP_TIMEZONE", "UTC"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
