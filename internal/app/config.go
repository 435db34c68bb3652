package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	JWTSecretKey       string        `yaml:"jwt_secret_key"`
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl"`
	TokenRefreshWindow time.Duration `yaml:"token_refresh_window"`
	CookieSecure       bool          `yaml:"cookie_secure"`
	CookieDomain       string        `yaml:"cookie_domain,omitempty"`

	OpenAIAPIKey  string        `yaml:"openai_api_key"`
	OpenAIModel   string        `yaml:"openai_model"`
	OpenAIBaseURL string        `yaml:"openai_base_url,omitempty"`
	OpenAITimeout time.Duration `yaml:"openai_timeout"`

	SendgridAPIKey     string `yaml:"sendgrid_api_key"`
	SendgridFromEmail  string `yaml:"sendgrid_from_email"`
	SendgridFromName   string `yaml:"sendgrid_from_name"`
	SendgridMaxRetries int    `yaml:"sendgrid_max_retries"`
	SupportEmail       string `yaml:"support_email"`

	CORSOrigins []string `yaml:"cors_origins,omitempty"`

	ServiceName     string  `yaml:"service_name"`
	Environment     string  `yaml:"app_env,omitempty"`
	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelEndpoint    string  `yaml:"otel_endpoint,omitempty"`
	OtelHeaders     string  `yaml:"otel_headers,omitempty"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`
}

// LoadConfig reads an optional config.yaml from the working directory (or
// ./config) and lets environment variables override every key.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return configFrom(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("ACCESS_TOKEN_TTL", "3600")
	v.SetDefault("REFRESH_TOKEN_TTL", "86400")
	v.SetDefault("TOKEN_REFRESH_WINDOW", "5m")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TIMEOUT_SECONDS", 60)
	v.SetDefault("SENDGRID_FROM_NAME", "Ideabox")
	v.SetDefault("SENDGRID_MAX_RETRIES", 0)
	v.SetDefault("SERVICE_NAME", "ideabox-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SAMPLER_RATIO", 1.0)
}

func configFrom(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:    v.GetString("PORT"),
		LogMode: v.GetString("LOG_MODE"),

		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(v.GetString("REDIS_URL")),

		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),
		CookieDomain: v.GetString("COOKIE_DOMAIN"),

		OpenAIAPIKey:  strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
		OpenAITimeout: time.Duration(v.GetInt("OPENAI_TIMEOUT_SECONDS")) * time.Second,

		SendgridAPIKey:     strings.TrimSpace(v.GetString("SENDGRID_API_KEY")),
		SendgridFromEmail:  v.GetString("SENDGRID_FROM_EMAIL"),
		SendgridFromName:   v.GetString("SENDGRID_FROM_NAME"),
		SendgridMaxRetries: v.GetInt("SENDGRID_MAX_RETRIES"),
		SupportEmail:       v.GetString("SUPPORT_EMAIL"),

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		ServiceName:     v.GetString("SERVICE_NAME"),
		Environment:     v.GetString("APP_ENV"),
		OtelEnabled:     v.GetBool("OTEL_ENABLED"),
		OtelEndpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelHeaders:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
		OtelInsecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		OtelSampleRatio: v.GetFloat64("OTEL_SAMPLER_RATIO"),
	}

	var err error
	if cfg.AccessTokenTTL, err = durationOrSeconds(v, "ACCESS_TOKEN_TTL"); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationOrSeconds(v, "REFRESH_TOKEN_TTL"); err != nil {
		return Config{}, err
	}
	if cfg.TokenRefreshWindow, err = durationOrSeconds(v, "TOKEN_REFRESH_WINDOW"); err != nil {
		return Config{}, err
	}
	if cfg.OpenAITimeout <= 0 {
		cfg.OpenAITimeout = 60 * time.Second
	}
	if cfg.SupportEmail == "" {
		cfg.SupportEmail = cfg.SendgridFromEmail
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	required := []struct{ key, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REDIS_URL", cfg.RedisURL},
		{"JWT_SECRET_KEY", cfg.JWTSecretKey},
		{"OPENAI_API_KEY", cfg.OpenAIAPIKey},
		{"SENDGRID_API_KEY", cfg.SendgridAPIKey},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if cfg.TokenRefreshWindow >= cfg.AccessTokenTTL {
		return fmt.Errorf("TOKEN_REFRESH_WINDOW must be shorter than ACCESS_TOKEN_TTL")
	}
	return nil
}

// durationOrSeconds accepts a bare integer (seconds) or a Go duration string.
func durationOrSeconds(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
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
