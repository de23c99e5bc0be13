package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	RestaurantName    string
	Currency          string
	Timezone          string
	PublicBaseURL     string
	LowStockThreshold int

	R2 R2Config

	RedisURL     string
	RollbarToken string
	BuildVersion string

	Notify NotifyConfig
}

type R2Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether image uploads can be stored.
func (r R2Config) Enabled() bool {
	return r.Endpoint != "" && r.Bucket != "" && r.AccessKey != "" && r.SecretKey != ""
}

type NotifyConfig struct {
	InProcess    bool
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int

	TelegramBotToken string
	TelegramChatID   string

	DiscordWebhook string

	SendGridAPIKey  string
	EmailFrom       string
	RestaurantEmail string

	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppWebhookURL    string
	RestaurantPhone       string

	GoogleSheetsURL string
}

var ErrMissingSetting = errors.New("missing required setting")

// Load reads .env (outside production), an optional CONFIG_FILE and the
// process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RESTAURANT_NAME", "Dar Lmeknessiya")
	v.SetDefault("CURRENCY", "MAD")
	v.SetDefault("TIMEZONE", "Africa/Casablanca")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:5173")
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("BUILD_VERSION", "dev")
	v.SetDefault("NOTIFY_IN_PROCESS", true)
	v.SetDefault("NOTIFY_POLL_INTERVAL", 2*time.Second)
	v.SetDefault("NOTIFY_BATCH_SIZE", 10)
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	v.SetDefault("EMAIL_FROM", "orders@localhost")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env:  v.GetString("APP_ENV"),
		Port: v.GetString("PORT"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBMaxConns:  v.GetInt32("DB_MAX_CONNS"),
		DBMinConns:  v.GetInt32("DB_MIN_CONNS"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		RestaurantName:    v.GetString("RESTAURANT_NAME"),
		Currency:          v.GetString("CURRENCY"),
		Timezone:          v.GetString("TIMEZONE"),
		PublicBaseURL:     strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),

		R2: R2Config{
			Endpoint:      v.GetString("R2_ENDPOINT"),
			AccessKey:     v.GetString("R2_ACCESS_KEY"),
			SecretKey:     v.GetString("R2_SECRET_KEY"),
			Bucket:        v.GetString("R2_BUCKET_NAME"),
			PublicBaseURL: strings.TrimRight(v.GetString("R2_PUBLIC_BASE_URL"), "/"),
		},

		RedisURL:     v.GetString("REDIS_URL"),
		RollbarToken: v.GetString("ROLLBAR_TOKEN"),
		BuildVersion: v.GetString("BUILD_VERSION"),

		Notify: NotifyConfig{
			InProcess:    v.GetBool("NOTIFY_IN_PROCESS"),
			PollInterval: v.GetDuration("NOTIFY_POLL_INTERVAL"),
			BatchSize:    v.GetInt("NOTIFY_BATCH_SIZE"),
			MaxAttempts:  v.GetInt("NOTIFY_MAX_ATTEMPTS"),

			TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
			TelegramChatID:   v.GetString("TELEGRAM_CHAT_ID"),

			DiscordWebhook: v.GetString("DISCORD_WEBHOOK"),

			SendGridAPIKey:  v.GetString("SENDGRID_API_KEY"),
			EmailFrom:       v.GetString("EMAIL_FROM"),
			RestaurantEmail: v.GetString("RESTAURANT_EMAIL"),

			WhatsAppPhoneNumberID: v.GetString("WHATSAPP_PHONE_NUMBER_ID"),
			WhatsAppAccessToken:   v.GetString("WHATSAPP_ACCESS_TOKEN"),
			WhatsAppWebhookURL:    v.GetString("WHATSAPP_WEBHOOK_URL"),
			RestaurantPhone:       v.GetString("RESTAURANT_PHONE"),

			GoogleSheetsURL: v.GetString("GOOGLE_SHEETS_WEBAPP_URL"),
		},
	}
}

// Validate fails on the first missing required setting.
func (c *Config) Validate() error {
	required := map[string]string{
		"JWT_SECRET":   c.JWTSecret,
		"DATABASE_URL": c.DatabaseURL,
	}
	for _, k := range []string{"JWT_SECRET", "DATABASE_URL"} {
		if required[k] == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, k)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the restaurant time zone, UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
