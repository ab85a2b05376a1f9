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

const (
	DBMemory = "memory"
	DBMongo  = "mongo"
	DBDynamo = "dynamodb"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Lead store: "memory", "mongo" or "dynamodb"
	DBType string

	// MongoDB settings (when DBType = "mongo")
	MongoURI string
	MongoDB  string

	// DynamoDB settings (when DBType = "dynamodb")
	AWSRegion          string
	DynamoDBEndpoint   string // Optional: for local development
	DynamoLeadsTable   string
	AWSAccessKeyID     string // Optional: for local development
	AWSSecretAccessKey string // Optional: for local development

	// Timeouts
	HTTPReadTimeoutSec     int
	HTTPWriteTimeoutSec    int
	HTTPIdleTimeoutSec     int
	HTTPRequestTimeoutSec  int
	MongoConnectTimeoutSec int
	MongoOpTimeoutMs       int

	// CRM sync cadence
	WorkerIntervalSec int

	// Security
	APIKey           string   // admin routes
	AllowedOrigins   []string // CORS allowed origins
	RateLimitRPM     int      // per IP, all routes
	LeadRateLimitRPM int      // per IP, POST /api/lead

	// Optional YAML rate set replacing the shipped tables
	RatesFile string

	// Lead notification email; disabled when EmailAPIURL is empty
	EmailAPIURL      string
	EmailAPIKey      string
	EmailFrom        string
	EmailTo          []string
	NotifyTimeoutSec int

	// CRM upsert; disabled when CRMAPIURL is empty
	CRMAPIURL      string
	CRMAPIKey      string
	CRMMaxAttempts int
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "dev")
	cfg.LogLevel = getEnv("LOG_LEVEL", "")
	cfg.DBType = strings.ToLower(getEnv("DB_TYPE", DBMemory))

	// MongoDB settings (check both MONGODB_URI and MONGO_URI for compatibility)
	cfg.MongoURI = getEnv("MONGODB_URI", getEnv("MONGO_URI", ""))
	cfg.MongoDB = getEnv("MONGO_DB", "agency_leads")

	// DynamoDB settings
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", "") // Empty means use AWS
	cfg.DynamoLeadsTable = getEnv("DYNAMODB_LEADS_TABLE", "agency_leads")
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")

	cfg.HTTPReadTimeoutSec = getEnvAsInt("HTTP_READ_TIMEOUT_SEC", 10)
	cfg.HTTPWriteTimeoutSec = getEnvAsInt("HTTP_WRITE_TIMEOUT_SEC", 20)
	cfg.HTTPIdleTimeoutSec = getEnvAsInt("HTTP_IDLE_TIMEOUT_SEC", 120)
	cfg.HTTPRequestTimeoutSec = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SEC", 15)
	cfg.MongoConnectTimeoutSec = getEnvAsInt("MONGO_CONNECT_TIMEOUT_SEC", 5)
	cfg.MongoOpTimeoutMs = getEnvAsInt("MONGO_OP_TIMEOUT_MS", 500)
	cfg.WorkerIntervalSec = getEnvAsInt("WORKER_INTERVAL_SEC", 30)

	cfg.APIKey = getEnv("API_KEY", "")
	cfg.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})
	cfg.RateLimitRPM = getEnvAsInt("RATE_LIMIT_RPM", 120)
	cfg.LeadRateLimitRPM = getEnvAsInt("LEAD_RATE_LIMIT_RPM", 10)

	cfg.RatesFile = getEnv("RATES_FILE", "")

	cfg.EmailAPIURL = getEnv("EMAIL_API_URL", "")
	cfg.EmailAPIKey = getEnv("EMAIL_API_KEY", "")
	cfg.EmailFrom = getEnv("EMAIL_FROM", "leads@localhost")
	cfg.EmailTo = getEnvAsSlice("EMAIL_TO", nil)
	cfg.NotifyTimeoutSec = getEnvAsInt("NOTIFY_TIMEOUT_SEC", 5)

	cfg.CRMAPIURL = getEnv("CRM_API_URL", "")
	cfg.CRMAPIKey = getEnv("CRM_API_KEY", "")
	cfg.CRMMaxAttempts = getEnvAsInt("CRM_MAX_ATTEMPTS", 5)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Default API key for development only
	if cfg.APIKey == "" {
		cfg.APIKey = "dev-admin-key"
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBType {
	case DBMemory, DBDynamo:
	case DBMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when DB_TYPE=mongo")
		}
	default:
		return fmt.Errorf("unknown DB_TYPE %q (want memory, mongo or dynamodb)", c.DBType)
	}

	if c.IsProd() && c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production environment")
	}

	if c.EmailAPIURL != "" && len(c.EmailTo) == 0 {
		return fmt.Errorf("EMAIL_TO is required when EMAIL_API_URL is set")
	}

	if c.WorkerIntervalSec <= 0 {
		return fmt.Errorf("WORKER_INTERVAL_SEC must be positive")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

func (c *Config) EmailEnabled() bool { return c.EmailAPIURL != "" }

func (c *Config) CRMEnabled() bool { return c.CRMAPIURL != "" }

func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSec) * time.Second
}

func (c *Config) MongoOpTimeout() time.Duration {
	return time.Duration(c.MongoOpTimeoutMs) * time.Millisecond
}

func (c *Config) WorkerInterval() time.Duration {
	return time.Duration(c.WorkerIntervalSec) * time.Second
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	var result []string
	for _, s := range strings.Split(valStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
