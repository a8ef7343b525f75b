package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Availability AvailabilityConfig
	SlotCache    SlotCacheConfig
	Exports      ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AvailabilityConfig tunes the scheduling engine.
type AvailabilityConfig struct {
	OperatingTimezone  string
	MaxSlotMinutes     int
	DefaultSlotStart   string
	DefaultSlotMinutes int
	LookaheadDays      int
	MaxLookaheadDays   int
	ConflictScope      string
	SaveConcurrency    int
	SessionTTL         time.Duration
}

// Location resolves OperatingTimezone, falling back to UTC.
func (a AvailabilityConfig) Location() *time.Location {
	if a.OperatingTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.OperatingTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlotCacheConfig governs caching of materialized slot listings.
type SlotCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportsConfig toggles the slot export endpoint.
type ExportsConfig struct {
	SlotsEnabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxSlot := v.GetInt("MAX_SLOT_MINUTES")
	if maxSlot <= 0 {
		maxSlot = 60
	}
	defaultSlot := v.GetInt("DEFAULT_SLOT_MINUTES")
	if defaultSlot <= 0 || defaultSlot > maxSlot {
		defaultSlot = maxSlot
	}
	lookahead := v.GetInt("LOOKAHEAD_DAYS")
	if lookahead <= 0 {
		lookahead = 14
	}
	maxLookahead := v.GetInt("MAX_LOOKAHEAD_DAYS")
	if maxLookahead < lookahead {
		maxLookahead = lookahead
	}
	cfg.Availability = AvailabilityConfig{
		OperatingTimezone:  v.GetString("OPERATING_TIMEZONE"),
		MaxSlotMinutes:     maxSlot,
		DefaultSlotStart:   v.GetString("DEFAULT_SLOT_START"),
		DefaultSlotMinutes: defaultSlot,
		LookaheadDays:      lookahead,
		MaxLookaheadDays:   maxLookahead,
		ConflictScope:      v.GetString("CONFLICT_SCOPE"),
		SaveConcurrency:    v.GetInt("SAVE_CONCURRENCY"),
		SessionTTL:         parseDuration(v.GetString("SESSION_TTL"), 2*time.Hour),
	}

	cfg.SlotCache = SlotCacheConfig{
		Enabled: v.GetBool("ENABLE_SLOT_CACHE"),
		TTL:     parseDuration(v.GetString("SLOT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		SlotsEnabled: v.GetBool("ENABLE_SLOT_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mentor_availability")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("OPERATING_TIMEZONE", "UTC")
	v.SetDefault("MAX_SLOT_MINUTES", 60)
	v.SetDefault("DEFAULT_SLOT_START", "09:00")
	v.SetDefault("DEFAULT_SLOT_MINUTES", 60)
	v.SetDefault("LOOKAHEAD_DAYS", 14)
	v.SetDefault("MAX_LOOKAHEAD_DAYS", 90)
	v.SetDefault("CONFLICT_SCOPE", "weekday")
	v.SetDefault("SAVE_CONCURRENCY", 4)
	v.SetDefault("SESSION_TTL", "2h")

	v.SetDefault("ENABLE_SLOT_CACHE", true)
	v.SetDefault("SLOT_CACHE_TTL", "5m")
	v.SetDefault("ENABLE_SLOT_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
