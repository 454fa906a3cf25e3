package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config รวมค่าที่อ่านจาก Environment Variables
type Config struct {
	AppPort        string `validate:"required,numeric"`
	AppMode        string `validate:"oneof=development production test"`
	AllowedOrigins string
	JWTSecret      string `validate:"required"`

	MongoURI string `validate:"required"`
	MongoDB  string `validate:"required"`
	DBDriver string `validate:"oneof=postgres sqlite"`
	DBDSN    string `validate:"required"`
	RedisURI string

	AutoFillCron    string `validate:"required"`
	AssignCron      string `validate:"required"`
	ReconcileCron   string
	ScheduleTZ      string `validate:"required"`
	AutoFillText    string `validate:"required"`
	DefaultSurveyID string
	SeedSampleData  bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "8888"),
		AppMode:        getEnv("APP_MODE", "development"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		JWTSecret:      getEnv("JWT_SECRET", "your_secret_key"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "assessment"),
		DBDriver: getEnv("DB_DRIVER", "postgres"),
		DBDSN:    os.Getenv("DB_DSN"),
		RedisURI: os.Getenv("REDIS_URI"),

		AutoFillCron:    getEnv("AUTOFILL_CRON", "5 0 1 * *"),
		AssignCron:      getEnv("ASSIGN_CRON", "0 1 1 * *"),
		ReconcileCron:   os.Getenv("RECONCILE_CRON"),
		ScheduleTZ:      getEnv("SCHEDULE_TZ", "Asia/Jakarta"),
		AutoFillText:    getEnv("AUTOFILL_TEXT", "Auto-filled by system"),
		DefaultSurveyID: os.Getenv("DEFAULT_SURVEY_ID"),
		SeedSampleData:  getEnv("SEED_SAMPLE_DATA", "false") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(c.ScheduleTZ); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TZ %q: %w", c.ScheduleTZ, err)
	}
	return nil
}

// Location returns the scheduler timezone; Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScheduleTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) RedisEnabled() bool {
	return c.RedisURI != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
