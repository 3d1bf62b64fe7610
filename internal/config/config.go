package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	App          AppConfig
	Storage      StorageConfig
	Payroll      PayrollConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// StorageConfig selects where saved payroll batches are archived.
// Type is "local", "s3" or "none".
type StorageConfig struct {
	Type      string
	BasePath  string
	BaseURL   string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// PayrollConfig holds the salary policy applied by the calculator.
type PayrollConfig struct {
	BasicPercent         decimal.Decimal
	HRAPercent           decimal.Decimal
	AllowancePercent     decimal.Decimal
	CompensationFallback decimal.Decimal
	DraftTTL             time.Duration
}

type NotificationConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	WorkerCount   int
	QueueSize     int
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "okboz"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Username: getEnv("REDIS_USER", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Storage = StorageConfig{
		Type:      getEnv("STORAGE_TYPE", "none"),
		BasePath:  getEnv("STORAGE_BASE_PATH", "./archive"),
		BaseURL:   getEnv("STORAGE_BASE_URL", "/archive"),
		Bucket:    getEnv("S3_BUCKET", ""),
		Region:    getEnv("S3_REGION", "auto"),
		Endpoint:  getEnv("S3_ENDPOINT", ""),
		AccessKey: getEnv("S3_ACCESS_KEY", ""),
		SecretKey: getEnv("S3_SECRET_KEY", ""),
	}

	// Payroll policy
	basicPct, err := getEnvDecimal("PAYROLL_BASIC_PERCENT", "50")
	if err != nil {
		return nil, err
	}
	hraPct, err := getEnvDecimal("PAYROLL_HRA_PERCENT", "30")
	if err != nil {
		return nil, err
	}
	allowancePct, err := getEnvDecimal("PAYROLL_ALLOWANCE_PERCENT", "20")
	if err != nil {
		return nil, err
	}
	fallback, err := getEnvDecimal("PAYROLL_COMPENSATION_FALLBACK", "0")
	if err != nil {
		return nil, err
	}
	draftTTL, err := time.ParseDuration(getEnv("PAYROLL_DRAFT_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DRAFT_TTL: %w", err)
	}

	config.Payroll = PayrollConfig{
		BasicPercent:         basicPct,
		HRAPercent:           hraPct,
		AllowancePercent:     allowancePct,
		CompensationFallback: fallback,
		DraftTTL:             draftTTL,
	}

	flushInterval, err := time.ParseDuration(getEnv("NOTIFICATION_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_FLUSH_INTERVAL: %w", err)
	}
	config.Notification = NotificationConfig{
		BatchSize:     getEnvInt("NOTIFICATION_BATCH_SIZE", 100),
		FlushInterval: flushInterval,
		WorkerCount:   getEnvInt("NOTIFICATION_WORKERS", 2),
		QueueSize:     getEnvInt("NOTIFICATION_QUEUE_SIZE", 1000),
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	config.RateLimit = RateLimitConfig{
		RequestsPerSecond: rps,
		Burst:             getEnvInt("RATE_LIMIT_BURST", 20),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	sum := c.Payroll.BasicPercent.Add(c.Payroll.HRAPercent).Add(c.Payroll.AllowancePercent)
	if !sum.Equal(decimal.NewFromInt(100)) {
		return fmt.Errorf("payroll split must add up to 100, got %s", sum)
	}
	if c.Payroll.CompensationFallback.IsNegative() {
		return fmt.Errorf("PAYROLL_COMPENSATION_FALLBACK must be non-negative")
	}
	if c.Storage.Type == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE=s3")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
