package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	Log     LogConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Format  FormatConfig
	Presets PresetsConfig
	Queue   QueueConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
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

// StorageConfig holds object storage settings. Provider selects between the
// S3 backend and the local-filesystem backend.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	LocalRoot     string `mapstructure:"local_root"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRConfig holds OCR extraction settings.
type OCRConfig struct {
	Provider      string `mapstructure:"provider"`
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	Model         string `mapstructure:"model"`
	IncludeImages bool   `mapstructure:"include_images"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
	TessLanguage  string `mapstructure:"tess_language"`
}

// LLMProviderConfig holds settings for a single completion provider.
type LLMProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds completion settings: the direct chat-completions strategy
// plus an optional delegated provider that takes precedence when configured.
type LLMConfig struct {
	APIKey       string            `mapstructure:"api_key"`
	BaseURL      string            `mapstructure:"base_url"`
	DefaultModel string            `mapstructure:"default_model"`
	TimeoutSecs  int               `mapstructure:"timeout_secs"`
	Delegate     LLMProviderConfig `mapstructure:"delegate"`
}

// DirectConfig returns the direct-HTTP strategy as a provider config.
func (l *LLMConfig) DirectConfig() *LLMProviderConfig {
	return &LLMProviderConfig{
		Provider:     "mistral",
		APIKey:       l.APIKey,
		BaseURL:      l.BaseURL,
		DefaultModel: l.DefaultModel,
		TimeoutSecs:  l.TimeoutSecs,
	}
}

// DelegateConfig returns the delegated provider config, or nil if none is
// configured.
func (l *LLMConfig) DelegateConfig() *LLMProviderConfig {
	if l.Delegate.Provider == "" {
		return nil
	}
	return &l.Delegate
}

// FormatConfig holds formatting pipeline settings.
type FormatConfig struct {
	DefaultPreset  string `mapstructure:"default_preset"`
	TargetLanguage string `mapstructure:"target_language"`
}

// PresetsConfig holds preset store settings.
type PresetsConfig struct {
	Dir string `mapstructure:"dir"`
}

// QueueConfig holds format queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// Load reads configuration from environment variables with the INKWELL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "inkwell")
	v.SetDefault("db.password", "inkwell_secret")
	v.SetDefault("db.name", "inkwell_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Storage defaults
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "inkwell-documents")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.local_root", "data/storage")
	v.SetDefault("storage.max_file_size_mb", 50)
	v.SetDefault("storage.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// OCR defaults
	v.SetDefault("ocr.provider", "mistral")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.base_url", "")
	v.SetDefault("ocr.model", "mistral-ocr-latest")
	v.SetDefault("ocr.include_images", true)
	v.SetDefault("ocr.timeout_secs", 120)
	v.SetDefault("ocr.tess_language", "eng")

	// LLM defaults (direct strategy)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.default_model", "mistral-small-latest")
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.delegate.provider", "")
	v.SetDefault("llm.delegate.api_key", "")
	v.SetDefault("llm.delegate.base_url", "")
	v.SetDefault("llm.delegate.default_model", "")
	v.SetDefault("llm.delegate.timeout_secs", 120)

	// Format defaults
	v.SetDefault("format.default_preset", "standard")
	v.SetDefault("format.target_language", "")

	// Presets defaults
	v.SetDefault("presets.dir", "data/presets")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "INKWELL_SERVER_PORT",
		"server.read_timeout":        "INKWELL_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "INKWELL_SERVER_WRITE_TIMEOUT",
		"server.environment":         "INKWELL_SERVER_ENVIRONMENT",
		"db.host":                    "INKWELL_DB_HOST",
		"db.port":                    "INKWELL_DB_PORT",
		"db.user":                    "INKWELL_DB_USER",
		"db.password":                "INKWELL_DB_PASSWORD",
		"db.name":                    "INKWELL_DB_NAME",
		"db.sslmode":                 "INKWELL_DB_SSLMODE",
		"db.max_open":                "INKWELL_DB_MAX_OPEN",
		"db.max_idle":                "INKWELL_DB_MAX_IDLE",
		"storage.provider":           "INKWELL_STORAGE_PROVIDER",
		"storage.region":             "INKWELL_STORAGE_REGION",
		"storage.bucket":             "INKWELL_STORAGE_BUCKET",
		"storage.endpoint":           "INKWELL_STORAGE_ENDPOINT",
		"storage.access_key":         "INKWELL_STORAGE_ACCESS_KEY",
		"storage.secret_key":         "INKWELL_STORAGE_SECRET_KEY",
		"storage.local_root":         "INKWELL_STORAGE_LOCAL_ROOT",
		"storage.max_file_size_mb":   "INKWELL_STORAGE_MAX_FILE_SIZE_MB",
		"storage.presign_expiry":     "INKWELL_STORAGE_PRESIGN_EXPIRY",
		"log.level":                  "INKWELL_LOG_LEVEL",
		"log.format":                 "INKWELL_LOG_FORMAT",
		"ocr.provider":               "INKWELL_OCR_PROVIDER",
		"ocr.api_key":                "INKWELL_OCR_API_KEY",
		"ocr.base_url":               "INKWELL_OCR_BASE_URL",
		"ocr.model":                  "INKWELL_OCR_MODEL",
		"ocr.include_images":         "INKWELL_OCR_INCLUDE_IMAGES",
		"ocr.timeout_secs":           "INKWELL_OCR_TIMEOUT_SECS",
		"ocr.tess_language":          "INKWELL_OCR_TESS_LANGUAGE",
		"llm.api_key":                "INKWELL_LLM_API_KEY",
		"llm.base_url":               "INKWELL_LLM_BASE_URL",
		"llm.default_model":          "INKWELL_LLM_DEFAULT_MODEL",
		"llm.timeout_secs":           "INKWELL_LLM_TIMEOUT_SECS",
		"llm.delegate.provider":      "INKWELL_LLM_DELEGATE_PROVIDER",
		"llm.delegate.api_key":       "INKWELL_LLM_DELEGATE_API_KEY",
		"llm.delegate.base_url":      "INKWELL_LLM_DELEGATE_BASE_URL",
		"llm.delegate.default_model": "INKWELL_LLM_DELEGATE_DEFAULT_MODEL",
		"llm.delegate.timeout_secs":  "INKWELL_LLM_DELEGATE_TIMEOUT_SECS",
		"format.default_preset":      "INKWELL_FORMAT_DEFAULT_PRESET",
		"format.target_language":     "INKWELL_FORMAT_TARGET_LANGUAGE",
		"presets.dir":                "INKWELL_PRESETS_DIR",
		"queue.poll_interval_secs":   "INKWELL_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":          "INKWELL_QUEUE_MAX_RETRIES",
		"queue.concurrency":          "INKWELL_QUEUE_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INKWELL_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INKWELL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Storage = StorageConfig{
		Provider:      v.GetString("storage.provider"),
		Region:        v.GetString("storage.region"),
		Bucket:        v.GetString("storage.bucket"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		LocalRoot:     v.GetString("storage.local_root"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.OCR = OCRConfig{
		Provider:      v.GetString("ocr.provider"),
		APIKey:        v.GetString("ocr.api_key"),
		BaseURL:       v.GetString("ocr.base_url"),
		Model:         v.GetString("ocr.model"),
		IncludeImages: v.GetBool("ocr.include_images"),
		TimeoutSecs:   v.GetInt("ocr.timeout_secs"),
		TessLanguage:  v.GetString("ocr.tess_language"),
	}
	cfg.LLM = LLMConfig{
		APIKey:       v.GetString("llm.api_key"),
		BaseURL:      v.GetString("llm.base_url"),
		DefaultModel: v.GetString("llm.default_model"),
		TimeoutSecs:  v.GetInt("llm.timeout_secs"),
		Delegate: LLMProviderConfig{
			Provider:     v.GetString("llm.delegate.provider"),
			APIKey:       v.GetString("llm.delegate.api_key"),
			BaseURL:      v.GetString("llm.delegate.base_url"),
			DefaultModel: v.GetString("llm.delegate.default_model"),
			TimeoutSecs:  v.GetInt("llm.delegate.timeout_secs"),
		},
	}
	cfg.Format = FormatConfig{
		DefaultPreset:  v.GetString("format.default_preset"),
		TargetLanguage: v.GetString("format.target_language"),
	}
	cfg.Presets = PresetsConfig{
		Dir: v.GetString("presets.dir"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	return cfg, nil
}
