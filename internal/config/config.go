package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	Upload   UploadConfig
	Report   ReportConfig
}

type AppConfig struct {
	Name      string `yaml:"name" env:"APP_NAME" env-default:"vetly"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
}

type ServerConfig struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

type DatabaseConfig struct {
	URL         string `yaml:"url" env:"DATABASE_URL"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type HTTPConfig struct {
	CORSOrigin      string        `yaml:"cors_origin" env:"FRONTEND_URL" env-default:"*"`
	RateLimitMax    int           `yaml:"rate_limit_max" env:"RATE_LIMIT_MAX" env-default:"100"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW" env-default:"15m"`
	PublicBaseURL   string        `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
}

type UploadConfig struct {
	MaxBytes        int64  `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"5242880"`
	S3Bucket        string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Region        string `yaml:"s3_region" env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint      string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3PublicBaseURL string `yaml:"s3_public_base_url" env:"S3_PUBLIC_BASE_URL"`
	AccessKeyID     string `yaml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	LocalDir        string `yaml:"local_dir" env:"LOCAL_UPLOAD_DIR" env-default:"./uploads"`
}

type ReportConfig struct {
	Timezone string `yaml:"timezone" env:"REPORT_TIMEZONE" env-default:"America/Sao_Paulo"`
}

// Load carga .env (si existe), luego YAML (CONFIG_PATH) y variables de entorno.
// Prioridad: ENV > YAML > defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, errors.New("BCRYPT_COST must be between 4 and 31"))
	}
	if c.HTTP.RateLimitMax <= 0 || c.HTTP.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if strings.TrimSpace(c.Upload.S3Bucket) == "" && strings.TrimSpace(c.Upload.LocalDir) == "" {
		errs = append(errs, errors.New("either S3_BUCKET or LOCAL_UPLOAD_DIR is required"))
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("REPORT_TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// Addr devuelve la dirección de escucha para http.Server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Server.Port, ":")
}

// Location devuelve la zona horaria de los reportes (ya validada).
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) UseS3() bool {
	return strings.TrimSpace(c.Upload.S3Bucket) != ""
}
