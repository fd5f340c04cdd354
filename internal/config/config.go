package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	AppEnv         string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	SessionTTLDays int
	FrontendURL    string

	RedisAddr       string
	RateLimitPerMin int

	RabbitURL string

	MailerSendAPIKey string
	MailFrom         string
	MailFromName     string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	StripeSecretKey     string
	StripeWebhookSecret string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getenv("APP_PORT", "8080"),
		AppEnv:         getenv("APP_ENV", "development"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "plateful"),
		JWTSecret:      os.Getenv("JWT_SECRET"), // no default: an empty secret must fail closed
		SessionTTLDays: atoi(getenv("SESSION_TTL_DAYS", "1")),
		FrontendURL:    getenv("FRONTEND_URL", "http://localhost:3000"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RateLimitPerMin: atoi(getenv("RATE_LIMIT_PER_MIN", "5")),

		RabbitURL: os.Getenv("RABBIT_URL"),

		MailerSendAPIKey: os.Getenv("MAILERSEND_API_KEY"),
		MailFrom:         os.Getenv("MAIL_FROM"),
		MailFromName:     getenv("MAIL_FROM_NAME", "Plateful"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

func (c Config) Production() bool { return c.AppEnv == "production" }

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
