package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukinote/yuki/internal/entities"
)

// migrationStep is one additive schema change. Apply must be idempotent.
type migrationStep struct {
	Version int
	Name    string
	Apply   func(tx *gorm.DB) error
}

var quizSchemaSteps = []migrationStep{
	{Version: 1, Name: "create_single_quiz_table", Apply: createQuizTable},
	{Version: 2, Name: "add_quiz_created_at", Apply: addQuizCreatedAt},
}

// LatestSchemaVersion is the version after every step has been applied.
func LatestSchemaVersion() int {
	return quizSchemaSteps[len(quizSchemaSteps)-1].Version
}

// EnsureQuizSchema brings the quiz table up to date and returns the number
// of steps it applied. Steps are additive only: nothing is ever dropped or
// retyped. If the quiz table is missing the steps are applied again from
// the start, whatever version is recorded.
func EnsureQuizSchema(ctx context.Context, db *gorm.DB) (int, error) {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&entities.SchemaMigration{}); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if current > 0 && !db.Migrator().HasTable(entities.QuizTableName) {
		log.Printf("Schema: %s missing at version %d, reapplying", entities.QuizTableName, current)
		current = 0
	}

	applied := 0
	for _, step := range quizSchemaSteps {
		if step.Version <= current {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.Apply(tx); err != nil {
				return err
			}
			record := entities.SchemaMigration{
				Version:   step.Version,
				Name:      step.Name,
				AppliedAt: entities.FormatTimestamp(time.Now()),
			}
			return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply schema step %d (%s): %w", step.Version, step.Name, err)
		}

		log.Printf("Schema: applied step %d (%s)", step.Version, step.Name)
		applied++
	}

	return applied, nil
}

// SchemaVersion returns the highest recorded step, 0 when none is recorded.
func SchemaVersion(ctx context.Context, db *gorm.DB) (int, error) {
	var version int
	err := db.WithContext(ctx).
		Model(&entities.SchemaMigration{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// TableColumns lists the columns of table in declaration order.
func TableColumns(ctx context.Context, db *gorm.DB, table string) ([]string, error) {
	var columns []string
	err := db.WithContext(ctx).
		Raw("SELECT name FROM pragma_table_info(?) ORDER BY cid", table).
		Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	return columns, nil
}

func createQuizTable(tx *gorm.DB) error {
	return tx.Exec(`CREATE TABLE IF NOT EXISTS ` + entities.QuizTableName + ` (
		question_id INTEGER PRIMARY KEY AUTOINCREMENT,
		question_text TEXT NOT NULL,
		question_type VARCHAR(50) NOT NULL,
		option_a TEXT NOT NULL,
		option_b TEXT NOT NULL,
		option_c TEXT,
		option_d TEXT,
		correct_answer_key VARCHAR(1) NOT NULL,
		explanation TEXT,
		created_at TEXT
	)`).Error
}

func addQuizCreatedAt(tx *gorm.DB) error {
	columns, err := TableColumns(tx.Statement.Context, tx, entities.QuizTableName)
	if err != nil {
		return err
	}
	for _, c := range columns {
		if c == "created_at" {
			return nil
		}
	}
	return tx.Exec("ALTER TABLE " + entities.QuizTableName + " ADD COLUMN created_at TEXT").Error
}
