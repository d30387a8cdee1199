package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Payment  PaymentConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type PaymentConfig struct {
	Iyzico IyzicoConfig
	// ReconciliationCron is the cron spec for the stranded-payment
	// retry job
	ReconciliationCron string
}

// IyzicoConfig carries the gateway credentials plus the buyer attributes the
// gateway requires but the checkout form does not collect. All values are
// injected per environment; none are hardcoded.
type IyzicoConfig struct {
	APIKey      string
	SecretKey   string
	BaseURL     string
	Currency    string
	Locale      string
	Installment int
	Timeout     time.Duration

	BuyerCountry        string
	BuyerZipCode        string
	BuyerIdentityNumber string
	BuyerIP             string
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "shopapp"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Payment: PaymentConfig{
			Iyzico: IyzicoConfig{
				APIKey:      getEnv("IYZICO_API_KEY", ""),
				SecretKey:   getEnv("IYZICO_SECRET_KEY", ""),
				BaseURL:     getEnv("IYZICO_BASE_URL", "https://sandbox-api.iyzipay.com"),
				Currency:    getEnv("IYZICO_CURRENCY", "TRY"),
				Locale:      getEnv("IYZICO_LOCALE", "tr"),
				Installment: parseInt(getEnv("IYZICO_INSTALLMENT", "1"), 1),
				Timeout:     parseDuration(getEnv("IYZICO_TIMEOUT", "30s"), 30*time.Second),

				BuyerCountry:        getEnv("PAYMENT_BUYER_COUNTRY", "Turkey"),
				BuyerZipCode:        getEnv("PAYMENT_BUYER_ZIP_CODE", "34732"),
				BuyerIdentityNumber: getEnv("PAYMENT_BUYER_IDENTITY_NUMBER", ""),
				BuyerIP:             getEnv("PAYMENT_BUYER_IP", ""),
			},
			ReconciliationCron: getEnv("PAYMENT_RECONCILIATION_CRON", "*/5 * * * *"),
		},
		Catalog: CatalogConfig{
			CacheTTL: parseDuration(getEnv("CATALOG_CACHE_TTL", "5m"), 5*time.Minute),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		result = append(result, strings.TrimSpace(p))
	}
	return result
}
