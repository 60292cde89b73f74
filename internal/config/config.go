package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Detect DetectConfig
	OCR    OCRConfig
	Mask   MaskConfig
	Batch  BatchConfig
	Dirs   DirsConfig
	PDF    PDFConfig
	CORS   CORSConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	Environment   string        `mapstructure:"environment"`
	MaxFileSizeMB int64         `mapstructure:"max_file_size_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for archival object storage. Archiving is off
// unless Enabled is set; the pipeline works entirely on local paths.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// DetectConfig holds entity detector (Claude Vision) settings.
type DetectConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// OCRConfig holds text-extraction settings. Endpoint/APIKey/APIVersion/
// PollMillis apply to the azure provider, Languages to tesseract.
type OCRConfig struct {
	Provider    string   `mapstructure:"provider"`
	Endpoint    string   `mapstructure:"endpoint"`
	APIKey      string   `mapstructure:"api_key"`
	APIVersion  string   `mapstructure:"api_version"`
	PollMillis  int      `mapstructure:"poll_millis"`
	TimeoutSecs int      `mapstructure:"timeout_secs"`
	Languages   []string `mapstructure:"languages"`
}

// MaskConfig holds geometric masking settings.
type MaskConfig struct {
	FontPath string `mapstructure:"font_path"`
}

// BatchConfig holds batch orchestrator settings.
type BatchConfig struct {
	Concurrency         int `mapstructure:"concurrency"`
	DocumentTimeoutSecs int `mapstructure:"document_timeout_secs"`
}

// DirsConfig holds working directory locations.
type DirsConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	TemplatesDir string `mapstructure:"templates_dir"`
	ConfigsDir   string `mapstructure:"configs_dir"`
}

// UploadDir returns the directory for uploaded PDFs.
func (d *DirsConfig) UploadDir() string { return filepath.Join(d.DataDir, "uploads") }

// TempImageDir returns the directory for per-page raster scratch files.
func (d *DirsConfig) TempImageDir() string { return filepath.Join(d.DataDir, "temp_images") }

// OutputDir returns the directory for masked output documents.
func (d *DirsConfig) OutputDir() string { return filepath.Join(d.DataDir, "output") }

// PDFConfig holds page rasterization settings.
type PDFConfig struct {
	DPI int `mapstructure:"dpi"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the PRIVASEE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRIVASEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_file_size_mb", 10)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "privasee")
	v.SetDefault("db.password", "privasee_secret")
	v.SetDefault("db.name", "privasee_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "privasee-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Detector defaults
	v.SetDefault("detect.provider", "claude")
	v.SetDefault("detect.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("detect.max_tokens", 4096)
	v.SetDefault("detect.timeout_secs", 120)

	// OCR defaults
	v.SetDefault("ocr.provider", "azure")
	v.SetDefault("ocr.api_version", "2023-07-31")
	v.SetDefault("ocr.poll_millis", 500)
	v.SetDefault("ocr.timeout_secs", 120)
	v.SetDefault("ocr.languages", "eng")

	// Mask defaults
	v.SetDefault("mask.font_path", "")

	// Batch defaults
	v.SetDefault("batch.concurrency", 2)
	v.SetDefault("batch.document_timeout_secs", 600)

	// Directory defaults
	v.SetDefault("dirs.data_dir", "data")
	v.SetDefault("dirs.templates_dir", "data/system_strategies")
	v.SetDefault("dirs.configs_dir", "data/user_configs")

	// PDF defaults
	v.SetDefault("pdf.dpi", 300)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://localhost:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Viper reads env lists as a single comma-separated string
	cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowed_origins"))
	cfg.OCR.Languages = splitList(v.GetString("ocr.languages"))

	return &cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
