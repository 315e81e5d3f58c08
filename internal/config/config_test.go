package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(DefaultPort), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, "./cc-cedict.sqlite", cfg.Dataset.PrimaryLocation)
	assert.Equal(t, "./public/cc-cedict.sqlite", cfg.Dataset.SecondaryLocation)
	assert.Equal(t, 60*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, "cedict_db", cfg.Snapshot.Key)
	assert.Empty(t, cfg.Snapshot.EncryptionKey)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Backup.Schedule)
	assert.Equal(t, 7, cfg.Backup.Keep)
	assert.Equal(t, 1000, cfg.Query.DefaultLimit)
	assert.Equal(t, 1000, cfg.Query.MaxLimit)
	assert.True(t, cfg.Quiz.ValidateAnswers)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.True(t, cfg.Store.Preload)
	assert.Equal(t, "warn", cfg.Store.SQLLogLevel)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATASET_PRIMARY_LOCATION", "https://cdn.example.com/cc-cedict.sqlite")
	t.Setenv("DATASET_FETCH_TIMEOUT", "5s")
	t.Setenv("QUIZ_VALIDATE_ANSWERS", "false")
	t.Setenv("SNAPSHOT_BACKUP_ENABLED", "true")
	t.Setenv("QUERY_MAX_LIMIT", "200")
	t.Setenv("AUDIT_RETENTION_DAYS", "0")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "https://cdn.example.com/cc-cedict.sqlite", cfg.Dataset.PrimaryLocation)
	assert.Equal(t, 5*time.Second, cfg.Dataset.FetchTimeout)
	assert.False(t, cfg.Quiz.ValidateAnswers)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, 200, cfg.Query.MaxLimit)
	assert.Zero(t, cfg.Audit.RetentionDays)
}
