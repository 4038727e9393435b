package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	LogMode        string
	AllowedOrigins []string
	Storage        StorageConfig
	Reminder       ReminderConfig
	Twilio         TwilioConfig
	PartnerDBURL   string
}

// StorageConfig selects the slot and change-bus drivers.
type StorageConfig struct {
	Driver       string // memory|fs|sqlite|postgres|s3
	FSRoot       string
	SQLitePath   string
	DBURL        string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3PathStyle  bool
	BusDriver    string // memory|redis|none
	RedisAddr    string
	RedisChannel string
	// SingleInstance allows a shared slot without the redis bus.
	SingleInstance bool
}

type ReminderConfig struct {
	Schedule string
	Timezone string
	Template string
}

// Location resolves Timezone, falling back to the local zone.
func (r ReminderConfig) Location() *time.Location {
	if r.Timezone == "" || strings.EqualFold(r.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Enabled reports whether enough credentials are present to send SMS.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.mode", "development")
	v.SetDefault("cors.origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("storage.driver", "fs")
	v.SetDefault("storage.fs_root", "./data")
	v.SetDefault("sqlite.path", "cutine.db")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("storage.single_instance", false)
	v.SetDefault("bus.driver", "memory")
	v.SetDefault("redis.channel", "cutine:slots")
	v.SetDefault("reminder.schedule", "0 9 * * *")
	v.SetDefault("reminder.timezone", "Local")
	v.SetDefault("reminder.template", "Hi [Nickname]! [Label]: [Message]")
}

// Load reads .env, an optional config.yaml in the working directory and the
// process environment. Environment wins: storage.fs_root is STORAGE_FS_ROOT.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:           v.GetString("port"),
		LogMode:        v.GetString("log.mode"),
		AllowedOrigins: splitList(v.GetString("cors.origins")),
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("storage.driver")),
			FSRoot:         v.GetString("storage.fs_root"),
			SQLitePath:     v.GetString("sqlite.path"),
			DBURL:          v.GetString("db.url"),
			S3Bucket:       v.GetString("s3.bucket"),
			S3Region:       v.GetString("s3.region"),
			S3Endpoint:     v.GetString("s3.endpoint"),
			S3PathStyle:    v.GetBool("s3.path_style"),
			BusDriver:      strings.ToLower(v.GetString("bus.driver")),
			RedisAddr:      v.GetString("redis.addr"),
			RedisChannel:   v.GetString("redis.channel"),
			SingleInstance: v.GetBool("storage.single_instance"),
		},
		Reminder: ReminderConfig{
			Schedule: v.GetString("reminder.schedule"),
			Timezone: v.GetString("reminder.timezone"),
			Template: v.GetString("reminder.template"),
		},
		Twilio: TwilioConfig{
			AccountSID:  v.GetString("twilio.account_sid"),
			AuthToken:   v.GetString("twilio.auth_token"),
			PhoneNumber: v.GetString("twilio.phone_number"),
		},
		PartnerDBURL: v.GetString("partner.db_url"),
	}

	if cfg.Storage.Driver == "postgres" && cfg.Storage.DBURL == "" {
		return nil, errors.New("DB_URL required for postgres storage")
	}
	if cfg.Storage.Driver == "s3" && cfg.Storage.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET required for s3 storage")
	}
	if _, err := time.LoadLocation(cfg.Reminder.Timezone); err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE: %w", err)
	}
	if cfg.Storage.BusDriver == "redis" && cfg.Storage.RedisAddr == "" {
		return nil, errors.New("REDIS_ADDR required for redis bus")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
