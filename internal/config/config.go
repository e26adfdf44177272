package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza la configuración cargada del entorno.
type Config struct {
	Port                 int
	DBDSN                string
	DBPoolSize           int32
	DBMigrate            bool
	RedisURL             string
	SessionSecret        string
	SessionTTL           time.Duration
	SessionCookie        string
	CookieSecure         bool
	AdminDefaultPassword string
	AllowOrigins         []string
	LogLevel             string
}

// Load carga variables de entorno y aplica defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválido")
	}
	cfg.Port = port

	cfg.DBDSN = strings.TrimSpace(getEnv("DB_DSN", ""))
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obligatorio")
	}

	poolSize, err := strconv.Atoi(getEnv("DB_POOL_SIZE", "5"))
	if err != nil || poolSize <= 0 {
		return nil, errors.New("DB_POOL_SIZE inválido")
	}
	cfg.DBPoolSize = int32(poolSize)

	migrate, err := parseBoolEnv("DB_MIGRATE", true)
	if err != nil {
		return nil, err
	}
	cfg.DBMigrate = migrate

	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obligatorio")
	}

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", ""))
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET debe tener al menos 32 caracteres")
	}

	ttl, err := parseDurationEnv("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = ttl

	cfg.SessionCookie = strings.TrimSpace(getEnv("SESSION_COOKIE", "sisexp_session"))
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "sisexp_session"
	}

	secure, err := parseBoolEnv("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	cfg.CookieSecure = secure

	cfg.AdminDefaultPassword = getEnv("ADMIN_DEFAULT_PASSWORD", "admin")
	if cfg.AdminDefaultPassword == "" {
		return nil, errors.New("ADMIN_DEFAULT_PASSWORD no puede estar vacío")
	}

	for _, origin := range strings.Split(getEnv("ALLOW_ORIGINS", ""), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info")))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil || dur <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}
