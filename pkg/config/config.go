package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// DatabaseConfig holds pool and migration settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxConns        int           `yaml:"max_conns"`
	MinConns        int           `yaml:"min_conns"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ApplyOnStart    bool          `yaml:"apply_schema_on_start"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	JWTIssuer      string        `yaml:"jwt_issuer"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	CookieName     string        `yaml:"cookie_name"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	CookieDomain   string        `yaml:"cookie_domain"`
	LoginRateRPS   float64       `yaml:"login_rate_rps"`
	LoginRateBurst int           `yaml:"login_rate_burst"`
}

type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	SenderEmail    string `yaml:"sender_email"`
	SenderName     string `yaml:"sender_name"`
}

type UploadConfig struct {
	Dir           string `yaml:"dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	MaxBytes      int64  `yaml:"max_bytes"`
}

// TLSConfig holds environment-driven TLS configuration.
type TLSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CertPath        string `yaml:"cert_path"`
	KeyPath         string `yaml:"key_path"`
	AllowSelfSigned bool   `yaml:"allow_self_signed"`
}

// Config is the full server configuration. Values come from an optional YAML file
// (CONFIG_FILE) and are then overridden by environment variables.
type Config struct {
	Env             string         `yaml:"env"`
	Port            string         `yaml:"port"`
	CORSOrigins     []string       `yaml:"cors_origins"`
	CORSAllowCreds  bool           `yaml:"cors_allow_credentials"`
	Database        DatabaseConfig `yaml:"database"`
	Auth            AuthConfig     `yaml:"auth"`
	Email           EmailConfig    `yaml:"email"`
	Uploads         UploadConfig   `yaml:"uploads"`
	TLS             TLSConfig      `yaml:"tls"`
	ListingCacheTTL time.Duration  `yaml:"listing_cache_ttl"`
}

func defaults() Config {
	return Config{
		Env:  "development",
		Port: "",
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        2,
			MaxConnIdleTime: 5 * time.Minute,
			ApplyOnStart:    true,
		},
		Auth: AuthConfig{
			JWTIssuer:      "foundernet",
			TokenTTL:       7 * 24 * time.Hour,
			CookieName:     "fn_auth",
			LoginRateRPS:   1,
			LoginRateBurst: 5,
		},
		Uploads: UploadConfig{
			Dir:      "uploads",
			MaxBytes: 10 << 20,
		},
		TLS: TLSConfig{
			Enabled:         false,
			AllowSelfSigned: true,
		},
		ListingCacheTTL: 5 * time.Minute,
	}
}

// Load builds the configuration. A missing CONFIG_FILE is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		log.Printf("[CONFIG] Loaded configuration from %s", path)
	}

	applyEnv(&cfg)

	if cfg.Port == "" {
		if cfg.TLS.Enabled {
			cfg.Port = "8443"
		} else {
			cfg.Port = "8080"
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	}
	if env != "" {
		cfg.Env = env
	}
	cfg.Port = getString("SERVER_PORT", cfg.Port)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	cfg.CORSAllowCreds = getBool("CORS_ALLOW_CREDENTIALS", cfg.CORSAllowCreds)

	cfg.Database.URL = getString("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxConns = getInt("DB_MAX_CONNS", cfg.Database.MaxConns)
	cfg.Database.MinConns = getInt("DB_MIN_CONNS", cfg.Database.MinConns)
	cfg.Database.MaxConnIdleTime = getDuration("DB_MAX_CONN_IDLE_TIME", cfg.Database.MaxConnIdleTime)
	cfg.Database.ApplyOnStart = getBool("APPLY_SCHEMA_ON_START", cfg.Database.ApplyOnStart)

	cfg.Auth.JWTSecret = getString("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTIssuer = getString("JWT_ISSUER", cfg.Auth.JWTIssuer)
	cfg.Auth.TokenTTL = getDuration("JWT_TTL", cfg.Auth.TokenTTL)
	cfg.Auth.CookieName = getString("COOKIE_NAME", cfg.Auth.CookieName)
	cfg.Auth.CookieSecure = getBool("COOKIE_SECURE", cfg.Auth.CookieSecure)
	cfg.Auth.CookieDomain = getString("COOKIE_DOMAIN", cfg.Auth.CookieDomain)
	cfg.Auth.LoginRateRPS = getFloat("LOGIN_RATE_RPS", cfg.Auth.LoginRateRPS)
	cfg.Auth.LoginRateBurst = getInt("LOGIN_RATE_BURST", cfg.Auth.LoginRateBurst)

	cfg.Email.SendGridAPIKey = getString("SENDGRID_API_KEY", cfg.Email.SendGridAPIKey)
	cfg.Email.SenderEmail = getString("SENDGRID_SENDER_EMAIL", cfg.Email.SenderEmail)
	cfg.Email.SenderName = getString("SENDGRID_SENDER_NAME", cfg.Email.SenderName)

	cfg.Uploads.Dir = getString("UPLOAD_DIR", cfg.Uploads.Dir)
	cfg.Uploads.PublicBaseURL = getString("UPLOAD_PUBLIC_BASE_URL", cfg.Uploads.PublicBaseURL)

	cfg.TLS.Enabled = getBool("ENABLE_TLS", cfg.TLS.Enabled)
	// TLS is mandatory in production
	if cfg.Env == "production" {
		cfg.TLS.Enabled = true
	}
	cfg.TLS.CertPath = getString("TLS_CERT_PATH", cfg.TLS.CertPath)
	cfg.TLS.KeyPath = getString("TLS_KEY_PATH", cfg.TLS.KeyPath)
	cfg.TLS.AllowSelfSigned = getBool("TLS_SELF_SIGNED", cfg.TLS.AllowSelfSigned)

	cfg.ListingCacheTTL = getDuration("LISTING_CACHE_TTL", cfg.ListingCacheTTL)
}

// Validate rejects configurations that are unsafe to run.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Env == "production" {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if !c.TLS.Enabled {
			return fmt.Errorf("TLS must be enabled in production")
		}
		if c.TLS.CertPath == "" || c.TLS.KeyPath == "" {
			return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
		}
	}
	return nil
}

func (c Config) IsProduction() bool { return c.Env == "production" }

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s, using default: %s", key, def)
		return def
	}
	return d
}
