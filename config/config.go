package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	DBUrl    string

	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	AllowedOrigin string
	FrontendURL   string // checkout return/cancel pages live on the storefront
	BackendURL    string // public base URL for the ITN callback

	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration

	// PayFast gateway
	PayFastMerchantID  string
	PayFastMerchantKey string
	PayFastPassphrase  string
	PayFastProcessURL  string
	PayFastSandbox     bool

	// Money
	TaxRate      float64 // fraction, e.g. 0.15
	ShippingFlat float64 // fallback flat rate when no zone matches

	// Email
	ResendAPIKey string
	EmailFrom    string

	// R2 Storage (product media)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	MaxUploadSizeMB   int64
	R2UploadTimeout   time.Duration

	// Cache (store settings snapshot only; prices and stock are never cached)
	CacheSettingsTTL time.Duration

	// Business rules
	MaxCartQuantity int
}

func LoadConfig() *Config {
	// A specific config file may be requested via env var; otherwise fall back
	// to .env for local dev. Pure docker/prod envs rely on system env vars.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	sandbox := getBoolEnv("PAYFAST_SANDBOX", true)
	processURL := getEnv("PAYFAST_PROCESS_URL", "")
	if processURL == "" {
		if sandbox {
			processURL = "https://sandbox.payfast.co.za/eng/process"
		} else {
			processURL = "https://www.payfast.co.za/eng/process"
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DB_DSN", ""),

		JWTSecret:          getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AccessTokenExpiry:  getDurationEnv("ACCESS_TOKEN_EXPIRY", time.Hour*24),
		RefreshTokenExpiry: getDurationEnv("REFRESH_TOKEN_EXPIRY", time.Hour*24*7),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:8080"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		PayFastMerchantID:  getEnv("PAYFAST_MERCHANT_ID", ""),
		PayFastMerchantKey: getEnv("PAYFAST_MERCHANT_KEY", ""),
		PayFastPassphrase:  getEnv("PAYFAST_PASSPHRASE", ""),
		PayFastProcessURL:  processURL,
		PayFastSandbox:     sandbox,

		TaxRate:      getFloatEnv("TAX_RATE", 0.15),
		ShippingFlat: getFloatEnv("SHIPPING_FLAT_RATE", 0),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "orders@lushlocks.co.za"),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		MaxUploadSizeMB:   getInt64Env("MAX_UPLOAD_SIZE_MB", 10),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		CacheSettingsTTL: getDurationEnv("CACHE_SETTINGS_TTL", 10*time.Minute),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		log.Fatalf("CRITICAL: TAX_RATE must be a fraction in [0,1), got %v", c.TaxRate)
	}
	if c.IsProduction() && (c.PayFastMerchantID == "" || c.PayFastMerchantKey == "") {
		log.Println("WARNING: PayFast merchant credentials missing; payment initiation will fail")
	}
}

// IsProduction reports whether strict gateway source checks must be enforced.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid bool for %s, using fallback", key)
	}
	return fallback
}
