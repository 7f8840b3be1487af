package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-reservations/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port      string
	GinMode   string
	DBDriver  string
	DBDSN     string
	LogLevel  string
	LogFormat string

	JWTSecret    string
	AuthRequired bool
	CORSOrigin   string

	RateLimitRPS   float64
	RateLimitBurst int

	OccupancyInterval time.Duration
	OccupancyWindow   time.Duration
}

// Load reads the configuration from the environment. Call godotenv before
// Load when a .env file should be honoured.
func Load() Config {
	return Config{
		Port:      getenv("PORT", "8080"),
		GinMode:   os.Getenv("GIN_MODE"),
		DBDriver:  strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBDSN:     getenv("DB_DSN", "reservations.db"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		AuthRequired: getbool("AUTH_REQUIRED", false),
		CORSOrigin:   getenv("CORS_ORIGIN", "*"),

		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 40),

		OccupancyInterval: getduration("OCCUPANCY_INTERVAL", time.Minute),
		OccupancyWindow:   getduration("OCCUPANCY_WINDOW", 2*time.Hour),
	}
}

// Dialector picks the gorm driver for cfg.DBDriver.
func (cfg Config) Dialector() (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite", "sqlite3":
		return sqlite.Open(cfg.DBDSN), nil
	case "mysql":
		return mysql.Open(cfg.DBDSN), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DBDSN), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// InitDB opens the process-wide database handle.
func InitDB(cfg Config) (*gorm.DB, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.New(utils.InfoLogger, logger.Config{SlowThreshold: 200 * time.Millisecond, LogLevel: logLevel, IgnoreRecordNotFoundError: true}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}
	utils.InfoLogger.Infof("Connected to %s database", cfg.DBDriver)
	return db, nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, err := strconv.ParseBool(getenv(k, "")); err == nil {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v >= 0 {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(getenv(k, ""), 64); err == nil && v >= 0 {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil && v >= 0 {
		return v
	}
	return def
}
