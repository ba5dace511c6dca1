package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iksoll/VelvetCake/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port      string
	JWT       JWT
	DB        DB
	Redis     Redis
	Kafka     Kafka
	HTTP      HTTP
	Login     Login
	Cleanup   Cleanup
	IsDevMode bool
}

type JWT struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Enabled     bool
	Brokers     []string
	OrdersTopic string
}

type HTTP struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Login: ограничение неудачных попыток входа (работает только с Redis)
type Login struct {
	MaxAttempts int
	LockWindow  time.Duration
}

type Cleanup struct {
	CartTTL  time.Duration
	Interval time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port:      getEnv("APP_PORT", log),
		IsDevMode: os.Getenv("ENV") == "development",
		JWT: JWT{
			Secret: getEnv("JWT_SECRET", log),
			Issuer: getEnvDefault("JWT_ISSUER", "velvetcakes"),
			TTL:    durationEnv("JWT_TTL", "7d", log),
		},
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
			},
		},
		Redis: Redis{
			Enabled:    getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:       getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password:   getEnvDefault("REDIS_PASSWORD", ""),
			DB:         atoiDefault(getEnvDefault("REDIS_DB", "0"), 0),
			TTLSeconds: atoiDefault(getEnvDefault("CACHE_TTL_SECONDS", "60"), 60),
		},
		Kafka: Kafka{
			Enabled:     getEnvDefault("KAFKA_ENABLED", "false") == "true",
			Brokers:     splitAndTrim(getEnvDefault("KAFKA_BROKERS", "localhost:9092")),
			OrdersTopic: getEnvDefault("KAFKA_ORDERS_TOPIC", "velvetcakes.orders"),
		},
		HTTP: HTTP{
			CORSOrigins:    splitAndTrim(getEnvDefault("CORS_ORIGINS", "*")),
			RateLimitRPS:   atofDefault(getEnvDefault("RATE_LIMIT_RPS", "20"), 20),
			RateLimitBurst: atoiDefault(getEnvDefault("RATE_LIMIT_BURST", "40"), 40),
		},
		Login: Login{
			MaxAttempts: atoiDefault(getEnvDefault("LOGIN_MAX_ATTEMPTS", "5"), 5),
			LockWindow:  durationEnv("LOGIN_LOCK_WINDOW", "15m", log),
		},
		Cleanup: Cleanup{
			CartTTL:  durationEnv("CART_TTL", "30d", log),
			Interval: durationEnv("CLEANUP_INTERVAL", "1h", log),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

// durationEnv читает длительность из окружения. Нечитаемое или неположительное
// значение заменяется значением по умолчанию: TTL=0 выдавал бы уже истёкшие токены.
func durationEnv(key, def string, log *zap.Logger) time.Duration {
	raw := getEnvDefault(key, def)
	if d := parseDurationWithDays(raw); d > 0 {
		return d
	}
	log.Warn("Некорректная длительность, используется значение по умолчанию",
		zap.String("key", key),
		zap.String("value", raw),
		zap.String("default", def))
	return parseDurationWithDays(def)
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := time.ParseDuration(daysStr + "h")
		if err != nil {
			log.Printf("Ошибка парсинга TTL: %v", err)
			return 0
		}
		return time.Duration(24) * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func atofDefault(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
