package config

import (
	"os"
	"strconv"
)

// Config carries the infra wiring for the service, read from the
// environment with local-dev defaults.
type Config struct {
	HTTPPort int

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr string

	OrderAPIURL string
	UserAPIURL  string
	MenuAPIURL  string
	AdminAPIURL string

	// AdminAPIToken is the back-office credential, distinct from customer
	// session tokens and never shared with them.
	AdminAPIToken string

	JWTSecret string

	RulesFile string
}

func Load() Config {
	return Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8084),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "root"),
		DBPass:        getEnv("DB_PASS", ""),
		DBName:        getEnv("DB_NAME", "order-cache-db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		OrderAPIURL:   getEnv("ORDER_API_URL", "http://localhost:5000/api"),
		UserAPIURL:    getEnv("USER_API_URL", "http://localhost:5000/api"),
		MenuAPIURL:    getEnv("MENU_API_URL", "http://localhost:5000/api"),
		AdminAPIURL:   getEnv("ADMIN_API_URL", "http://localhost:5000/api/admin"),
		AdminAPIToken: getEnv("ADMIN_API_TOKEN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		RulesFile:     getEnv("RULES_FILE", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
