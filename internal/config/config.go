package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type App struct {
	Env          string
	CacheBackend string
}

type HTTP struct {
	Port string
}

type DB struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Kafka struct {
	Brokers []string
	Topics  []string
	Group   string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type Config struct {
	App   App
	HTTP  HTTP
	DB    DB
	Kafka Kafka
	Redis Redis
}

func Load() Config {
	return Config{
		App: App{
			Env:          getenv("APP_ENV", "dev"),
			CacheBackend: getenv("CACHE_BACKEND", "lru"),
		},
		HTTP: HTTP{
			Port: getenv("PORT", "8080"),
		},
		DB: DB{
			Host:     getenv("DB_HOST", "127.0.0.1"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", "stockmate_db"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Kafka: Kafka{
			Brokers: splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
			Topics: splitCSV(getenv("EVENT_TOPICS",
				"NewProductTopic,NewCustomerTopic,NewSupplierTopic,NewPurchaseOrderTopic,NewInventoryTopic")),
			Group: getenv("CONSUMER_GROUP", "persistence-service"),
		},
		Redis: Redis{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       atoi(getenv("REDIS_DB", "0")),
			TTL:      parseDuration(getenv("REDIS_TTL", "30m")),
			Prefix:   getenv("REDIS_PREFIX", "persisted:"),
		},
	}
}

// DSN builds a postgres connection string; DATABASE_URL wins when set.
func (c Config) DSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" +
		c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
