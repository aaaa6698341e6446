package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the agent reads from the environment.
type Config struct {
	HTTPPort int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	StoreBackend  string // postgres | file
	FileStorePath string

	RedisAddr     string // empty -> in-memory token store
	KafkaBrokers  []string
	NotifyTopic   string
	AuditTopic    string
	ConsumerGroup string

	ContentEndpoint string
	ContentAPIKey   string

	PollInterval time.Duration
	SlotLength   time.Duration
	ClaimLease   time.Duration

	BusinessTZ   string
	DayStartHour int
	DayEndHour   int

	Worker string

	AdminUser         string
	AdminPasswordHash string

	LogLevel string
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("config: cannot resolve working directory: %v", err)
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			log.Printf("Loaded environment variables from %s", examplePath)
			return
		}
	}
}

// Load reads the process environment, consulting .env / .example.env files
// the same way every service in this repo does. Values set in the real
// environment always win over file contents.
func Load() (*Config, error) {
	loadEnv()

	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 9000),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnvInt("DB_PORT", 5432),
		DBUser:            getEnv("POSTGRES_USER", "postgres"),
		DBPassword:        getEnv("POSTGRES_PASSWORD", ""),
		DBName:            getEnv("POSTGRES_DB", "cookies"),
		StoreBackend:      getEnv("STORE_BACKEND", "postgres"),
		FileStorePath:     getEnv("FILE_STORE_PATH", "fulfillment.json"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		KafkaBrokers:      getEnvList("KAFKA_BROKERS"),
		NotifyTopic:       getEnv("NOTIFY_TOPIC", "delivery_notifications"),
		AuditTopic:        getEnv("AUDIT_TOPIC", "fulfillment_audit"),
		ConsumerGroup:     getEnv("CONSUMER_GROUP", "notification-renderers"),
		ContentEndpoint:   getEnv("CONTENT_ENDPOINT", ""),
		ContentAPIKey:     getEnv("CONTENT_API_KEY", ""),
		PollInterval:      getEnvDuration("POLL_INTERVAL", 30*time.Second),
		SlotLength:        getEnvDuration("SLOT_LENGTH", 30*time.Minute),
		ClaimLease:        getEnvDuration("CLAIM_LEASE", 5*time.Minute),
		BusinessTZ:        getEnv("BUSINESS_TZ", "America/Los_Angeles"),
		DayStartHour:      getEnvInt("DAY_START_HOUR", 9),
		DayEndHour:        getEnvInt("DAY_END_HOUR", 20),
		Worker:            getEnv("WORKER_NAME", defaultWorkerName()),
		AdminUser:         getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
	}

	if cfg.StoreBackend != "postgres" && cfg.StoreBackend != "file" {
		return nil, fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.DayStartHour < 0 || cfg.DayEndHour > 24 || cfg.DayStartHour >= cfg.DayEndHour {
		return nil, fmt.Errorf("config: bad business day window %d..%d", cfg.DayStartHour, cfg.DayEndHour)
	}
	if cfg.SlotLength <= 0 {
		return nil, fmt.Errorf("config: SLOT_LENGTH must be positive")
	}

	return cfg, nil
}

// DSN renders the postgres connection string for pgxpool.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Location resolves the business timezone. Slot windows are computed in this
// location, not in UTC.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.BusinessTZ)
	if err != nil {
		return nil, fmt.Errorf("config: bad BUSINESS_TZ %q: %w", c.BusinessTZ, err)
	}
	return loc, nil
}

func defaultWorkerName() string {
	host, err := os.Hostname()
	if err != nil {
		return "agent"
	}
	return host
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
		log.Printf("config: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
