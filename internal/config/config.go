package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Configuration holds every runtime setting of the portal gateway.
type Configuration struct {
	App struct {
		Port     string `default:"8080" env:"PORT"`
		Mode     string `default:"debug" env:"GIN_MODE"`
		LogLevel string `default:"info" env:"LOG_LEVEL"`
		// IANA zone the portal's users enter times in
		Timezone string `default:"Asia/Jakarta" env:"APP_TIMEZONE"`
		// Comma separated list of browser origins allowed by CORS
		AllowedOrigins string `default:"http://localhost:5173,http://127.0.0.1:5173" env:"CORS_ALLOWED_ORIGINS"`
	}
	Upstream struct {
		BaseURL        string `default:"http://localhost:8000/api" env:"UPSTREAM_BASE_URL"`
		TimeoutSeconds int    `default:"15" env:"UPSTREAM_TIMEOUT_SECONDS"`
	}
	Auth struct {
		JWTSecret       string `default:"" env:"JWT_SECRET"`
		CookieName      string `default:"portal_session" env:"SESSION_COOKIE_NAME"`
		SessionTTLHours int    `default:"24" env:"SESSION_TTL_HOURS"`
		// Login attempts allowed per client IP inside LoginWindowSeconds
		LoginAttempts      int `default:"10" env:"LOGIN_RATE_LIMIT"`
		LoginWindowSeconds int `default:"60" env:"LOGIN_RATE_WINDOW_SECONDS"`
	}
	Session struct {
		Store string `default:"memory" env:"SESSION_STORE"` // postgres, redis or memory
	}
	Database struct {
		Host     string `default:"localhost" env:"DB_HOST"`
		Port     string `default:"5432" env:"DB_PORT"`
		User     string `default:"postgres" env:"DB_USER"`
		Password string `default:"postgres" env:"DB_PASSWORD"`
		Name     string `default:"postgres" env:"DB_NAME"`
		SslMode  string `default:"disable" env:"DB_SSLMODE"`
	}
	Redis struct {
		Host               string `default:"localhost" env:"REDIS_HOST"`
		Port               int    `default:"6379" env:"REDIS_PORT"`
		User               string `default:"" env:"REDIS_USER"`
		Password           string `default:"" env:"REDIS_PASSWORD"`
		DialTimeoutSeconds int    `default:"5" env:"REDIS_DIAL_TIMEOUT_SECONDS"`
		ReadTimeoutSeconds int    `default:"3" env:"REDIS_READ_TIMEOUT_SECONDS"`
	}
	Portal struct {
		DashboardCeilingSeconds int `default:"3" env:"DASHBOARD_CEILING_SECONDS"`
		PipelinePollSeconds     int `default:"5" env:"PIPELINE_POLL_SECONDS"`
	}
}

func configFiles() []string {
	return []string{"configs/portal.yml"}
}

// Load reads configs/.env into the process environment and then fills the
// configuration from configs/portal.yml and environment variables.
func Load() (*Configuration, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info("No configs/.env file found or error loading it")
	}

	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, configFiles()...); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(conf.App.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", conf.App.Timezone, err)
	}

	if conf.Auth.JWTSecret == "" {
		if conf.App.Mode == "release" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in release mode")
		}
		conf.Auth.JWTSecret = "default_portal_secret_key" // development fallback only
	}
	return conf, nil
}

// DSN builds the postgres connection string the way gorm's postgres driver expects it.
func (c *Configuration) DSN() string {
	d := c.Database
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SslMode
}

func (c *Configuration) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.App.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Configuration) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

func (c *Configuration) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

func (c *Configuration) DashboardCeiling() time.Duration {
	return time.Duration(c.Portal.DashboardCeilingSeconds) * time.Second
}

func (c *Configuration) PipelinePollInterval() time.Duration {
	return time.Duration(c.Portal.PipelinePollSeconds) * time.Second
}

// Location is the portal's time zone. Form times without an offset are read in it.
func (c *Configuration) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
