package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dbYAML = `
database:
  postgres:
    host: localhost
    database: fleet
    user: fleet
`

const baseYAML = "storage:\n  bucket: lawsuits-dev\n" + dbYAML

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, BackendGCS, cfg.Storage.Backend)
	assert.Equal(t, "lawsuits-dev", cfg.Storage.Bucket)
	assert.Equal(t, BackendPostgres, cfg.CaseStore)
	assert.Equal(t, BackendPostgres, cfg.Numbering)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 10, cfg.Conversion.MaxPages)
	assert.Equal(t, 60*time.Second, cfg.Conversion.Timeout)
	assert.Equal(t, "legal_cases", cfg.Firestore.Collections.Cases)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.False(t, cfg.Workflow.Enabled())
	assert.False(t, cfg.Notifications.Enabled())
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("LAWSUIT_STORAGE_BUCKET", "lawsuits-prod")
	t.Setenv("LAWSUIT_CONVERSION_MAX_PAGES", "4")
	t.Setenv("LAWSUIT_NOTIFICATIONS_TOPIC_ARN", "arn:aws:sns:me-south-1:123:cases")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)
	assert.Equal(t, "lawsuits-prod", cfg.Storage.Bucket)
	assert.Equal(t, 4, cfg.Conversion.MaxPages)
	assert.True(t, cfg.Notifications.Enabled())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing bucket",
			yaml:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "storage.bucket is required",
		},
		{
			name:    "unknown storage backend",
			yaml:    "storage:\n  bucket: b\n  backend: s3\n" + dbYAML,
			wantErr: "storage.backend",
		},
		{
			name:    "minio without endpoint",
			yaml:    "storage:\n  bucket: b\n  backend: minio\n" + dbYAML,
			wantErr: "storage.minio.endpoint is required",
		},
		{
			name:    "firestore without project",
			yaml:    baseYAML + "case_store: firestore\n",
			wantErr: "firestore.project_id is required",
		},
		{
			name:    "redis numbering without address",
			yaml:    baseYAML + "numbering: redis\n",
			wantErr: "database.redis.address is required",
		},
		{
			name:    "missing postgres host",
			yaml:    "storage:\n  bucket: b\n",
			wantErr: "database.postgres.host is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLateFeesConfig_Policy(t *testing.T) {
	p := LateFeesConfig{DailyRate: "150", CapPerInvoice: "bad"}.Policy()
	assert.True(t, decimal.NewFromInt(150).Equal(p.DailyRate))
	assert.True(t, decimal.NewFromInt(3000).Equal(p.CapPerInvoice))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	dsn := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "fleet", SSLMode: "require"}.GetDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=fleet sslmode=require", dsn)
}
