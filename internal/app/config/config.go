package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/shaymaabd/AMPA/internal/domain"
)

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"110s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type SessionConfig struct {
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	JWTSecret  string        `yaml:"jwt_secret" env:"SESSION_JWT_SECRET" env-required:"true"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"ampa_session"`
	Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

type EbayConfig struct {
	ClientID        string        `yaml:"client_id" env:"EBAY_CLIENT_ID" env-required:"true"`
	ClientSecret    string        `yaml:"client_secret" env:"EBAY_CLIENT_SECRET" env-required:"true"`
	AuthURL         string        `yaml:"auth_url" env:"EBAY_AUTH_URL" env-default:"https://api.ebay.com/identity/v1/oauth2/token"`
	SearchURL       string        `yaml:"search_url" env:"EBAY_SEARCH_URL" env-default:"https://api.ebay.com/buy/browse/v1/item_summary/search"`
	Scope           string        `yaml:"scope" env:"EBAY_SCOPE" env-default:"https://api.ebay.com/oauth/api_scope"`
	MarketplaceID   string        `yaml:"marketplace_id" env:"EBAY_MARKETPLACE_ID" env-default:"EBAY_US"`
	MaxRetries      int           `yaml:"max_retries" env:"EBAY_MAX_RETRIES" env-default:"3"`
	BreakerFailures uint32        `yaml:"breaker_failures" env:"EBAY_BREAKER_FAILURES" env-default:"5"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" env:"EBAY_BREAKER_TIMEOUT" env-default:"30s"`
}

type ChatConfig struct {
	APIKey          string `yaml:"api_key" env:"CEREBRAS_API_KEY" env-required:"true"`
	BaseURL         string `yaml:"base_url" env:"CHAT_BASE_URL" env-default:"https://api.cerebras.ai/v1"`
	Model           string `yaml:"model" env:"CHAT_MODEL" env-default:"llama-3.3-70b"`
	MaxTokens       int    `yaml:"max_tokens" env:"CHAT_MAX_TOKENS" env-default:"8000"`
	FollowUpTokens  int    `yaml:"follow_up_tokens" env:"CHAT_FOLLOW_UP_MAX_TOKENS" env-default:"512"`
	MaxHistoryTurns int    `yaml:"max_history_turns" env:"CHAT_MAX_HISTORY" env-default:"40"`
}

type FetchConfig struct {
	MaxBytes  int    `yaml:"max_bytes" env:"FETCH_MAX_BYTES" env-default:"200000"`
	UserAgent string `yaml:"user_agent" env:"FETCH_USER_AGENT" env-default:"AMPA-Procurement/1.0"`
}

type PricingConfig struct {
	AEDRate string `yaml:"aed_rate" env:"PRICING_AED_RATE" env-default:"3.65"`
}

type AgreementConfig struct {
	TemplatePath    string `yaml:"template_path" env:"AGREEMENT_TEMPLATE_PATH" env-default:"assets/document_to_edit/Supply_Agreement_Arial.html"`
	CustomerName    string `yaml:"customer_name" env:"AGREEMENT_CUSTOMER_NAME" env-default:"AMPA Procurement"`
	CustomerAddress string `yaml:"customer_address" env:"AGREEMENT_CUSTOMER_ADDRESS" env-default:"Dubai, United Arab Emirates"`
	Representative  string `yaml:"representative" env:"AGREEMENT_REPRESENTATIVE" env-default:"AMPA Procurement Representative"`
}

type CatalogConfig struct {
	PageSize     int `yaml:"page_size" env:"CATALOG_PAGE_SIZE" env-default:"9"`
	SearchLimit  int `yaml:"search_limit" env:"CATALOG_SEARCH_LIMIT" env-default:"50"`
	PriceCeiling int `yaml:"price_ceiling" env:"CATALOG_PRICE_CEILING" env-default:"10000"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"ampa"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET" env-default:"agreements"`
	UseSSL    bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"false"`
}

type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL"`
}

type SMTPConfig struct {
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	SenderEmail  string        `yaml:"sender_email" env:"SMTP_SENDER_EMAIL"`
	Encryption   string        `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"tls"`
	ServerName   string        `yaml:"server_name" env:"SMTP_SERVER_NAME"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SMTP_WRITE_TIMEOUT" env-default:"10s"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"ampa"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"ampa"`
}

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Logger     LoggerConfig     `yaml:"logger"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Ebay       EbayConfig       `yaml:"ebay"`
	Chat       ChatConfig       `yaml:"chat"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Agreement  AgreementConfig  `yaml:"agreement"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	MongoDB    MongoDBConfig    `yaml:"mongo"`
	S3         S3Config         `yaml:"s3"`
	NATS       NATSConfig       `yaml:"nats"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LoadConfig reads path when it exists and the environment otherwise. A .env
// file in the working directory is loaded first if present. Missing
// credentials are reported as domain.ErrConfiguration.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			log.Printf("Warning: config file not found at %s, loading from environment variables only", path)
			err = cleanenv.ReadEnv(&cfg)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH_AMPA")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
