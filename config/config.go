package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	FeedLocal        = "local"
	FeedChangeStream = "changestream"
)

// Config is everything the service reads from the environment.
type Config struct {
	Port           string
	MongoURL       string
	DBName         string
	Store          string
	SecretKey      string
	TokenTTL       time.Duration
	FrontendOrigin string
	FrontendDir    string
	FeedMode       string
	KafkaBrokers   []string
	KafkaTopic     string
	OTLPEndpoint   string
	LogLevel       string
	LogFormat      string
	Environment    string
	Location       *time.Location

	AnalyticsRefresh time.Duration
}

// Load reads .env (if any) and then the process environment.
func Load() Config {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		log.Println(".env file does not exist in the current working directory")
	} else if err := godotenv.Load(".env"); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg := Config{
		Port:             GetEnv("PORT", "8000"),
		MongoURL:         GetEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DBName:           GetEnv("DB_NAME", "campus_canteen"),
		Store:            GetEnv("STORE", StoreMongo),
		SecretKey:        GetEnv("SECRET_KEY", ""),
		TokenTTL:         getDuration("TOKEN_TTL", 24*time.Hour),
		FrontendOrigin:   GetEnv("FRONTEND_ORIGIN", "http://localhost:9000"),
		FrontendDir:      GetEnv("FRONTEND_DIR", "frontend/dist"),
		FeedMode:         GetEnv("FEED_MODE", FeedLocal),
		KafkaBrokers:     splitList(GetEnv("KAFKA_BROKERS", "")),
		KafkaTopic:       GetEnv("KAFKA_TOPIC", "order-events"),
		OTLPEndpoint:     GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		LogFormat:        GetEnv("LOG_FORMAT", "json"),
		Environment:      GetEnv("APP_ENV", "development"),
		Location:         time.Local,
		AnalyticsRefresh: getDuration("ANALYTICS_REFRESH", 15*time.Second),
	}

	if tz := GetEnv("TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Printf("unknown TIMEZONE %q, using local time: %v", tz, err)
		} else {
			cfg.Location = loc
		}
	}
	if cfg.SecretKey == "" {
		log.Println("SECRET_KEY is empty, staff tokens are signed with an empty key")
	}
	return cfg
}

// GetEnv returns the value of key or def when it is unset or blank.
func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// bare seconds
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("invalid duration %s=%q, using %s", key, raw, def)
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
