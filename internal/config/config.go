package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	MongoURI string `envconfig:"MONGO_URI"`
	DBName   string `envconfig:"DB_NAME" default:"livemart"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret      string        `envconfig:"JWT_SECRET"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"20m"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	ShopsCacheTTL time.Duration `envconfig:"SHOPS_CACHE_TTL" default:"60s"`

	PaymentBaseURL       string `envconfig:"PAYMENT_BASE_URL" default:"https://api.stripe.com"`
	PaymentSecretKey     string `envconfig:"PAYMENT_SECRET_KEY"`
	PaymentWebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`

	SMSBaseURL    string `envconfig:"SMS_BASE_URL" default:"https://api.twilio.com"`
	SMSAccountSID string `envconfig:"SMS_ACCOUNT_SID"`
	SMSAuthToken  string `envconfig:"SMS_AUTH_TOKEN"`
	SMSFrom       string `envconfig:"SMS_FROM"`

	GeocodeBaseURL   string `envconfig:"GEOCODE_BASE_URL"`
	GeocodeUserAgent string `envconfig:"GEOCODE_USER_AGENT" default:"LiveMart/1.0 (location lookup)"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
