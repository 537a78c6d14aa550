package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. LAWSUIT_STORAGE_BUCKET.
const EnvPrefix = "LAWSUIT"

// Load reads .env (if any), configs/config.yaml (if any) and environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile loads configuration from a specific YAML file plus environment overrides.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(filepath.Clean(path)); err == nil {
				return
			}
		}
	}
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the YAML file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lawsuitflow")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.backend", BackendGCS)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.use_ssl", false)

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.collections.cases", "legal_cases")
	v.SetDefault("firestore.collections.templates", "lawsuit_templates")
	v.SetDefault("firestore.collections.documents", "case_documents")

	v.SetDefault("case_store", BackendPostgres)
	v.SetDefault("numbering", BackendPostgres)

	v.SetDefault("conversion.render_url", "")
	v.SetDefault("conversion.timeout", "60s")
	v.SetDefault("conversion.max_pages", 10)
	v.SetDefault("conversion.docx", true)

	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.backoff", "1s")

	v.SetDefault("late_fees.daily_rate", "120")
	v.SetDefault("late_fees.cap_per_invoice", "3000")

	v.SetDefault("workflow.project_id", "")
	v.SetDefault("workflow.location", "")
	v.SetDefault("workflow.workflow_id", "")

	v.SetDefault("notifications.region", "")
	v.SetDefault("notifications.topic_arn", "")
}

// validateConfig checks that every selected backend has what it needs.
func validateConfig(cfg *Config) error {
	switch cfg.Storage.Backend {
	case BackendGCS:
	case BackendMinio:
		if cfg.Storage.Minio.Endpoint == "" {
			return fmt.Errorf("storage.minio.endpoint is required")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendGCS, BackendMinio, cfg.Storage.Backend)
	}
	if cfg.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}

	switch cfg.CaseStore {
	case BackendPostgres:
	case BackendFirestore:
		if cfg.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore.project_id is required")
		}
	default:
		return fmt.Errorf("case_store must be %q or %q, got %q", BackendPostgres, BackendFirestore, cfg.CaseStore)
	}

	switch cfg.Numbering {
	case BackendPostgres:
	case BackendRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required")
		}
	default:
		return fmt.Errorf("numbering must be %q or %q, got %q", BackendPostgres, BackendRedis, cfg.Numbering)
	}

	// The context loader always reads from PostgreSQL.
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	if cfg.Conversion.MaxPages <= 0 {
		return fmt.Errorf("conversion.max_pages must be positive")
	}
	return nil
}
