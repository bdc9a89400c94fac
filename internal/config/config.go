package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"DF-CONTRATOS/internal/processor"

	"github.com/joho/godotenv"
)

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
)

type Config struct {
	Server    ServerConfig             `json:"server"`
	Logging   LoggingConfig            `json:"logging"`
	Database  DatabaseConfig           `json:"database"`
	GCS       GCSConfig                `json:"gcs"`
	Output    OutputConfig             `json:"output"`
	Gotenberg GotenbergConfig          `json:"gotenberg"`
	Template  TemplateConfig           `json:"template"`
	Layout    processor.DocumentLayout `json:"layout"`
}

type ServerConfig struct {
	Port         string   `json:"port"`
	Environment  string   `json:"environment"`
	AllowOrigins []string `json:"allow_origins"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or console
}

type DatabaseConfig struct {
	Driver   string `json:"driver"` // memory or mysql
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	DBName   string `json:"db_name"`
}

type GCSConfig struct {
	BucketName      string `json:"bucket_name"`
	ProjectID       string `json:"project_id"`
	CredentialsPath string `json:"credentials_path"`
}

// OutputConfig is the local directory generated PDFs go to when no bucket is
// configured. Files older than MaxAge are removed.
type OutputConfig struct {
	Dir    string        `json:"dir"`
	MaxAge time.Duration `json:"max_age"`
}

// GotenbergConfig enables remote PDF conversion when URL is set.
type GotenbergConfig struct {
	URL     string `json:"url"`
	Timeout string `json:"timeout"`
	Retries int    `json:"retries"`
}

type TemplateConfig struct {
	// Path is a file path, an http(s) URL or gs://bucket/object. Empty uses
	// the built-in contract template.
	Path string `json:"path"`
}

func (d *DatabaseConfig) DSN() string {
	// Cloud SQL Unix socket support
	if len(d.Host) > 0 && d.Host[0] == '/' {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: parseAllowOrigins(getEnv("ALLOW_ORIGINS", "")),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverMemory)),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "df_contratos"),
		},
		GCS: GCSConfig{
			BucketName:      getEnv("GCS_BUCKET_NAME", ""),
			ProjectID:       getEnv("GOOGLE_CLOUD_PROJECT", ""),
			CredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "outputs"),
		},
		Gotenberg: GotenbergConfig{
			URL:     getEnv("GOTENBERG_URL", ""),
			Timeout: getEnv("GOTENBERG_TIMEOUT", "30s"),
		},
		Template: TemplateConfig{
			Path: getEnv("TEMPLATE_PATH", ""),
		},
	}

	switch config.Database.Driver {
	case DriverMemory, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	var err error
	if config.Output.MaxAge, err = time.ParseDuration(getEnv("OUTPUT_MAX_AGE", "24h")); err != nil {
		return nil, fmt.Errorf("invalid OUTPUT_MAX_AGE: %w", err)
	}
	if config.Gotenberg.Retries, err = strconv.Atoi(getEnv("GOTENBERG_RETRIES", "3")); err != nil {
		return nil, fmt.Errorf("invalid GOTENBERG_RETRIES: %w", err)
	}
	if config.Layout, err = loadLayout(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadLayout() (processor.DocumentLayout, error) {
	layout := processor.DefaultLayout()
	settings := []struct {
		key   string
		value *float64
	}{
		{"PAGE_WIDTH", &layout.PageWidth},
		{"PAGE_HEIGHT", &layout.PageHeight},
		{"PAGE_MARGIN", &layout.Margin},
		{"PAGE_BOTTOM_MARGIN", &layout.BottomMargin},
		{"LINE_HEIGHT", &layout.LineHeight},
		{"FONT_SIZE", &layout.FontSize},
	}
	for _, s := range settings {
		raw := os.Getenv(s.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return layout, fmt.Errorf("invalid %s: %w", s.key, err)
		}
		*s.value = v
	}

	if err := layout.Validate(); err != nil {
		return layout, err
	}
	return layout, nil
}

// parseAllowOrigins splits a comma-separated origin list. The form front end
// runs on localhost during development.
func parseAllowOrigins(origins string) []string {
	var allowOrigins []string
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowOrigins = append(allowOrigins, trimmed)
		}
	}
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}
	return allowOrigins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
