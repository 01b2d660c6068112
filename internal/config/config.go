package config

import (
	"os"
	"time"

	"tracksafe-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	// JWT
	JWT jwt.Config
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "redis-tracksafe:6379"),
		RedisPass:   getEnv("REDIS_PASS", ""),

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", "/app/secrets/jwt_private.pem"),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", "/app/secrets/jwt_public.pem"),
			Issuer:   "tracksafe",
			Audience: "tracksafe-users",
			TTL:      720 * time.Hour,
			KID:      "tracksafe-key",
		},
	}
}

// Configured reports whether the backing services are reachable in
// principle. A blank DATABASE_URL means the deployment never wired a
// database and every remote call should fail fast.
func (c AppConfig) Configured() bool {
	return c.DatabaseURL != ""
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
