package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Dataset
		Snapshot
		Backup
		Query
		Quiz
		Audit
		Store
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Dataset struct {
		PrimaryLocation   string // Path or http(s) URL tried first
		SecondaryLocation string // Fallback when the primary fails for any reason
		FetchTimeout      time.Duration
	}
	Snapshot struct {
		Dir           string
		Key           string
		EncryptionKey string // Base64 AES-256 key; empty stores the image in plaintext
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
		Keep     int
	}
	Query struct {
		DefaultLimit int
		MaxLimit     int // Upper bound applied by the HTTP facade
	}
	Quiz struct {
		ValidateAnswers bool
	}
	Audit struct {
		Enabled       bool
		Dir           string
		RetentionDays int // 0 keeps audit files forever
	}
	Store struct {
		Preload     bool   // Load the store at startup instead of on first request
		SQLLogLevel string // silent|error|warn|info
	}
	Tasks struct {
		Enabled bool
		Workers int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("dataset_primary_location", DefaultDatasetPrimaryLocation)
	v.SetDefault("dataset_secondary_location", DefaultDatasetSecondaryLocation)
	v.SetDefault("dataset_fetch_timeout", "60s")

	v.SetDefault("snapshot_dir", DefaultSnapshotDir)
	v.SetDefault("snapshot_key", DefaultSnapshotKey)
	v.SetDefault("snapshot_encryption_key", "")

	// Backup defaults
	v.SetDefault("snapshot_backup_enabled", false)
	v.SetDefault("snapshot_backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("snapshot_backup_dir", "./data/backups")
	v.SetDefault("snapshot_backup_keep", 7)

	v.SetDefault("query_default_limit", DefaultQueryLimit)
	v.SetDefault("query_max_limit", DefaultQueryLimit)

	v.SetDefault("quiz_validate_answers", true)

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 90)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_workers", 1)

	v.SetDefault("store_preload", true)
	v.SetDefault("store_sql_log_level", "warn")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Dataset: Dataset{
			PrimaryLocation:   v.GetString("DATASET_PRIMARY_LOCATION"),
			SecondaryLocation: v.GetString("DATASET_SECONDARY_LOCATION"),
			FetchTimeout:      v.GetDuration("DATASET_FETCH_TIMEOUT"),
		},
		Snapshot: Snapshot{
			Dir:           v.GetString("SNAPSHOT_DIR"),
			Key:           v.GetString("SNAPSHOT_KEY"),
			EncryptionKey: v.GetString("SNAPSHOT_ENCRYPTION_KEY"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("SNAPSHOT_BACKUP_ENABLED"),
			Schedule: v.GetString("SNAPSHOT_BACKUP_SCHEDULE"),
			Dir:      v.GetString("SNAPSHOT_BACKUP_DIR"),
			Keep:     v.GetInt("SNAPSHOT_BACKUP_KEEP"),
		},
		Query: Query{
			DefaultLimit: v.GetInt("QUERY_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("QUERY_MAX_LIMIT"),
		},
		Quiz: Quiz{
			ValidateAnswers: v.GetBool("QUIZ_VALIDATE_ANSWERS"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Store: Store{
			Preload:     v.GetBool("STORE_PRELOAD"),
			SQLLogLevel: v.GetString("STORE_SQL_LOG_LEVEL"),
		},
		Tasks: Tasks{
			Enabled: v.GetBool("TASKS_ENABLED"),
			Workers: v.GetInt("TASKS_WORKERS"),
		},
	}
}
