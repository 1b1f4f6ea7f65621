package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	Source    SourceConfig
	Artifacts ArtifactsConfig
	Dispatch  DispatchConfig
	Extract   ExtractConfig
}

// ServerConfig holds HTTP server settings for the report API.
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	Environment  string `mapstructure:"environment"`
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

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SourceConfig holds document source settings. The documents file is the
// delimited-text output of the upstream data preparation stage, one complaint
// per row with file_id, document_id, case_id, and text_content columns.
type SourceConfig struct {
	DocumentsFile string `mapstructure:"documents_file"`
	SampleSize    int    `mapstructure:"sample_size"`
}

// ArtifactsConfig selects where extraction artifacts are written. Backend is
// "local" or "s3".
type ArtifactsConfig struct {
	Backend string   `mapstructure:"backend"`
	Dir     string   `mapstructure:"dir"`
	S3      S3Config `mapstructure:"s3"`
}

// S3Config holds S3 settings for the S3 artifact backend.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// DispatchConfig holds batch dispatcher settings shared by all provider
// streams.
type DispatchConfig struct {
	Concurrency  int `mapstructure:"concurrency"`
	BatchDelayMS int `mapstructure:"batch_delay_ms"`
	MaxAttempts  int `mapstructure:"max_attempts"`
}

// ProviderConfig holds settings for a single LLM extraction provider.
type ProviderConfig struct {
	Name        string `mapstructure:"name"`
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	MaxTokens   int    `mapstructure:"max_tokens"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	Enabled     bool   `mapstructure:"enabled"`
}

// ExtractConfig holds the extraction prompt and the provider roster.
type ExtractConfig struct {
	PromptFile string           `mapstructure:"prompt_file"`
	Providers  []ProviderConfig `mapstructure:"providers"`
}

// EnabledProviders returns the providers with Enabled set.
func (e *ExtractConfig) EnabledProviders() []ProviderConfig {
	var out []ProviderConfig
	for _, p := range e.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Load reads configuration from config.yaml (if present) and DOCKETFLOW_*
// environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCKETFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docketflow")
	v.SetDefault("db.password", "docketflow_secret")
	v.SetDefault("db.name", "docketflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Source defaults
	v.SetDefault("source.documents_file", "data/filtered_texts.csv")
	v.SetDefault("source.sample_size", 0)

	// Artifact defaults
	v.SetDefault("artifacts.backend", "local")
	v.SetDefault("artifacts.dir", "data")
	v.SetDefault("artifacts.s3.region", "us-east-1")
	v.SetDefault("artifacts.s3.bucket", "docketflow-artifacts")
	v.SetDefault("artifacts.s3.prefix", "extractions")
	v.SetDefault("artifacts.s3.endpoint", "")

	// Dispatch defaults
	v.SetDefault("dispatch.concurrency", 15)
	v.SetDefault("dispatch.batch_delay_ms", 100)
	v.SetDefault("dispatch.max_attempts", 3)

	// Extract defaults
	v.SetDefault("extract.prompt_file", "")

	envBindings := map[string]string{
		"server.port":             "DOCKETFLOW_SERVER_PORT",
		"server.read_timeout":     "DOCKETFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "DOCKETFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":      "DOCKETFLOW_SERVER_ENVIRONMENT",
		"db.host":                 "DOCKETFLOW_DB_HOST",
		"db.port":                 "DOCKETFLOW_DB_PORT",
		"db.user":                 "DOCKETFLOW_DB_USER",
		"db.password":             "DOCKETFLOW_DB_PASSWORD",
		"db.name":                 "DOCKETFLOW_DB_NAME",
		"db.sslmode":              "DOCKETFLOW_DB_SSLMODE",
		"db.max_open":             "DOCKETFLOW_DB_MAX_OPEN",
		"db.max_idle":             "DOCKETFLOW_DB_MAX_IDLE",
		"log.level":               "DOCKETFLOW_LOG_LEVEL",
		"log.format":              "DOCKETFLOW_LOG_FORMAT",
		"source.documents_file":   "DOCKETFLOW_SOURCE_DOCUMENTS_FILE",
		"source.sample_size":      "DOCKETFLOW_SOURCE_SAMPLE_SIZE",
		"artifacts.backend":       "DOCKETFLOW_ARTIFACTS_BACKEND",
		"artifacts.dir":           "DOCKETFLOW_ARTIFACTS_DIR",
		"artifacts.s3.region":     "DOCKETFLOW_ARTIFACTS_S3_REGION",
		"artifacts.s3.bucket":     "DOCKETFLOW_ARTIFACTS_S3_BUCKET",
		"artifacts.s3.prefix":     "DOCKETFLOW_ARTIFACTS_S3_PREFIX",
		"artifacts.s3.endpoint":   "DOCKETFLOW_ARTIFACTS_S3_ENDPOINT",
		"artifacts.s3.access_key": "DOCKETFLOW_ARTIFACTS_S3_ACCESS_KEY",
		"artifacts.s3.secret_key": "DOCKETFLOW_ARTIFACTS_S3_SECRET_KEY",
		"dispatch.concurrency":    "DOCKETFLOW_DISPATCH_CONCURRENCY",
		"dispatch.batch_delay_ms": "DOCKETFLOW_DISPATCH_BATCH_DELAY_MS",
		"dispatch.max_attempts":   "DOCKETFLOW_DISPATCH_MAX_ATTEMPTS",
		"extract.prompt_file":     "DOCKETFLOW_EXTRACT_PROMPT_FILE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetString("server.read_timeout"),
		WriteTimeout: v.GetString("server.write_timeout"),
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
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Source = SourceConfig{
		DocumentsFile: v.GetString("source.documents_file"),
		SampleSize:    v.GetInt("source.sample_size"),
	}
	cfg.Artifacts = ArtifactsConfig{
		Backend: v.GetString("artifacts.backend"),
		Dir:     v.GetString("artifacts.dir"),
		S3: S3Config{
			Region:    v.GetString("artifacts.s3.region"),
			Bucket:    v.GetString("artifacts.s3.bucket"),
			Prefix:    v.GetString("artifacts.s3.prefix"),
			Endpoint:  v.GetString("artifacts.s3.endpoint"),
			AccessKey: v.GetString("artifacts.s3.access_key"),
			SecretKey: v.GetString("artifacts.s3.secret_key"),
		},
	}
	cfg.Dispatch = DispatchConfig{
		Concurrency:  v.GetInt("dispatch.concurrency"),
		BatchDelayMS: v.GetInt("dispatch.batch_delay_ms"),
		MaxAttempts:  v.GetInt("dispatch.max_attempts"),
	}
	cfg.Extract = ExtractConfig{
		PromptFile: v.GetString("extract.prompt_file"),
	}
	if err := v.UnmarshalKey("extract.providers", &cfg.Extract.Providers); err != nil {
		return nil, fmt.Errorf("parsing extract.providers: %w", err)
	}

	return cfg, nil
}
