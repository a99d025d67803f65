package config

import (
	"fmt"
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
	App     AppConfig
	Backend BackendConfig
	Auth    AuthConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Sales   SalesConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// BackendConfig points at the REST backend. DevURL or ProdURL is used
// depending on App.Env.
type BackendConfig struct {
	DevURL        string
	ProdURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

type AuthConfig struct {
	Secret   string
	Required bool
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	CatalogTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SalesConfig struct {
	Compensate bool
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  strings.ToLower(v.GetString("APP_ENV")),
			Port: v.GetString("APP_PORT"),
		},
		Backend: BackendConfig{
			DevURL:        v.GetString("API_URL_DEV"),
			ProdURL:       v.GetString("API_URL_PROD"),
			Timeout:       time.Duration(v.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
			RatePerSecond: v.GetFloat64("API_RATE_PER_SECOND"),
			Burst:         v.GetInt("API_RATE_BURST"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("JWT_SECRET"),
			Required: v.GetBool("AUTH_REQUIRED"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			CatalogTTL: time.Duration(v.GetInt("CATALOG_TTL_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Sales: SalesConfig{
			Compensate: v.GetBool("SALE_COMPENSATE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pos-sales")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_PORT", "8081")
	v.SetDefault("API_URL_DEV", "http://localhost:8080")
	v.SetDefault("API_URL_PROD", "")
	v.SetDefault("API_TIMEOUT_SECONDS", 15)
	v.SetDefault("API_RATE_PER_SECOND", 20)
	v.SetDefault("API_RATE_BURST", 5)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_TTL_SECONDS", 300)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SALE_COMPENSATE", true)
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.App.Env != EnvDevelopment && c.App.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.App.Env)
	}
	if c.BaseURL() == "" {
		return fmt.Errorf("backend URL for %s is not set", c.App.Env)
	}
	if (c.Auth.Required || c.Auth.Secret != "") && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// BaseURL is the backend URL for the current environment.
func (c *Config) BaseURL() string {
	if c.App.Env == EnvProduction {
		return c.Backend.ProdURL
	}
	return c.Backend.DevURL
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%s", c.App.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
