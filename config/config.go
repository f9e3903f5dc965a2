package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Overpass   OverpassConfig
	Calm       CalmConfig
	Log        LogConfig
	Admin      AdminSeedConfig
}

type ServerConfig struct {
	Port        string        `env:"PORT" envDefault:"3001"`
	Env         string        `env:"APP_ENV" envDefault:"development"`
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	// Calm score calculation may wait on Overpass, keep this above Overpass.Timeout.
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"45s"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimit    int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
}

type DatabaseConfig struct {
	DSN             string        `env:"DATABASE_DSN" envDefault:"calmspot:calmspot@tcp(localhost:3306)/calmspot?charset=utf8mb4&parseTime=True&loc=Local"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"1h"`
}

type JWTConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET" envDefault:"change-me-in-production"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET" envDefault:"change-me-refresh"`
	AccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"24h"`
	RefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`
	Issuer        string        `env:"JWT_ISSUER" envDefault:"calmspot"`
}

// CloudinaryConfig is optional; image uploads are disabled when CloudName is empty.
type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" envDefault:"calmspot/places"`
}

type OverpassConfig struct {
	URL      string        `env:"OVERPASS_URL" envDefault:"https://z.overpass-api.de/api/interpreter"`
	Timeout  time.Duration `env:"OVERPASS_TIMEOUT" envDefault:"30s"`
	CacheTTL time.Duration `env:"OVERPASS_CACHE_TTL" envDefault:"1h"`
}

type CalmConfig struct {
	SearchRadiusMeters float64 `env:"CALM_SEARCH_RADIUS" envDefault:"200"`
	UTMZone            int     `env:"CALM_UTM_ZONE" envDefault:"29"`
	PreviewRateLimit   int     `env:"CALM_PREVIEW_RATE_PER_MINUTE" envDefault:"10"`
}

type LogConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	NoColor bool   `env:"LOG_NO_COLOR" envDefault:"false"`
}

// AdminSeedConfig describes the admin account created on first boot.
type AdminSeedConfig struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@calmspot.local"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"change-me-admin"`
}

// Load reads an optional .env file, then the environment, applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Overpass.Timeout <= 0 {
		return errors.New("OVERPASS_TIMEOUT must be positive")
	}
	if c.Calm.SearchRadiusMeters <= 0 {
		return errors.New("CALM_SEARCH_RADIUS must be positive")
	}
	if c.Calm.UTMZone < 1 || c.Calm.UTMZone > 60 {
		return fmt.Errorf("CALM_UTM_ZONE must be in [1,60], got %d", c.Calm.UTMZone)
	}
	if c.Server.Env == "production" && c.JWT.AccessSecret == "change-me-in-production" {
		return errors.New("JWT_ACCESS_SECRET must be set in production")
	}
	return nil
}

// CloudinaryEnabled reports whether image uploads are configured.
func (c *Config) CloudinaryEnabled() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}
