// Package config loads service configuration from an optional .env file, configs/config.yaml and
// LAWSUIT_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lllllllleong/lawsuitflow/internal/calc"
)

// Backend names accepted by the storage, case_store and numbering sections.
const (
	BackendGCS       = "gcs"
	BackendMinio     = "minio"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Server        ServerConfig        `mapstructure:"server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Firestore     FirestoreConfig     `mapstructure:"firestore"`
	CaseStore     string              `mapstructure:"case_store"`
	Numbering     string              `mapstructure:"numbering"`
	Conversion    ConversionConfig    `mapstructure:"conversion"`
	Fetch         FetchConfig         `mapstructure:"fetch"`
	LateFees      LateFeesConfig      `mapstructure:"late_fees"`
	Workflow      WorkflowConfig      `mapstructure:"workflow"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type StorageConfig struct {
	Backend string      `mapstructure:"backend"`
	Bucket  string      `mapstructure:"bucket"`
	Minio   MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type FirestoreConfig struct {
	ProjectID   string            `mapstructure:"project_id"`
	Collections CollectionsConfig `mapstructure:"collections"`
}

type CollectionsConfig struct {
	Cases     string `mapstructure:"cases"`
	Templates string `mapstructure:"templates"`
	Documents string `mapstructure:"documents"`
}

type ConversionConfig struct {
	// RenderURL is the HTML screenshot service. Empty disables PDF output.
	RenderURL string        `mapstructure:"render_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxPages  int           `mapstructure:"max_pages"`
	Docx      bool          `mapstructure:"docx"`
}

type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	Backoff    time.Duration `mapstructure:"backoff"`
}

type LateFeesConfig struct {
	DailyRate     string `mapstructure:"daily_rate"`
	CapPerInvoice string `mapstructure:"cap_per_invoice"`
}

// Policy parses the configured amounts. Unparseable values keep the default for that field.
func (l LateFeesConfig) Policy() calc.LateFeePolicy {
	p := calc.DefaultLateFeePolicy()
	if d, err := decimal.NewFromString(l.DailyRate); err == nil {
		p.DailyRate = d
	}
	if d, err := decimal.NewFromString(l.CapPerInvoice); err == nil {
		p.CapPerInvoice = d
	}
	return p
}

type WorkflowConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Location   string `mapstructure:"location"`
	WorkflowID string `mapstructure:"workflow_id"`
}

// Enabled reports whether a post-registration workflow is configured.
func (w WorkflowConfig) Enabled() bool {
	return w.ProjectID != "" && w.Location != "" && w.WorkflowID != ""
}

type NotificationsConfig struct {
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

// Enabled reports whether SNS notifications are configured.
func (n NotificationsConfig) Enabled() bool {
	return n.TopicARN != ""
}
