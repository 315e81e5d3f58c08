// Package quiz stores generated multiple-choice questions.
//
// A batch is written in one transaction: either every record of the batch
// is persisted or none is.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukinote/yuki/internal/entities"
)

var (
	ErrInvalidQuestion = errors.New("invalid generated question")
	ErrEmptyBatch      = errors.New("empty question batch")
)

// Repository handles quiz record persistence.
type Repository struct {
	db              *gorm.DB
	validateAnswers bool
}

// NewRepository creates a new quiz repository. With validateAnswers set,
// SaveBatch rejects payloads whose answer does not point at a non-empty option
// and stores the answer key trimmed and lower-cased. Without it the answer is
// stored exactly as received.
func NewRepository(db *gorm.DB, validateAnswers bool) *Repository {
	return &Repository{db: db, validateAnswers: validateAnswers}
}

// SaveBatch persists questions stamped with a shared createdAt and returns
// how many were written.
func (r *Repository) SaveBatch(ctx context.Context, questions []entities.GeneratedQuestion, createdAt time.Time) (int, error) {
	if len(questions) == 0 {
		return 0, ErrEmptyBatch
	}

	records := make([]entities.QuizRecord, 0, len(questions))
	for i, q := range questions {
		if err := r.Validate(q); err != nil {
			return 0, fmt.Errorf("question %d: %w", i, err)
		}
		record := q.ToRecord(createdAt)
		if !r.validateAnswers {
			record.CorrectAnswerKey = entities.OptionKey(q.Answer)
		}
		records = append(records, record)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return fmt.Errorf("insert question %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Quiz: batch of %d rolled back: %v", len(records), err)
		return 0, fmt.Errorf("failed to save quiz batch: %w", err)
	}

	return len(records), nil
}

// Validate checks a payload before it is written.
func (r *Repository) Validate(q entities.GeneratedQuestion) error {
	if !r.validateAnswers {
		return nil
	}

	switch {
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("%w: question text is empty", ErrInvalidQuestion)
	case strings.TrimSpace(q.Options.A) == "":
		return fmt.Errorf("%w: option a is empty", ErrInvalidQuestion)
	case strings.TrimSpace(q.Options.B) == "":
		return fmt.Errorf("%w: option b is empty", ErrInvalidQuestion)
	case strings.TrimSpace(q.Explanation) == "":
		return fmt.Errorf("%w: explanation is empty", ErrInvalidQuestion)
	}

	key := q.AnswerKey()
	for _, k := range entities.OptionKeys {
		if k != key {
			continue
		}
		if strings.TrimSpace(q.Options.Get(k)) == "" {
			return fmt.Errorf("%w: answer %q points at an empty option", ErrInvalidQuestion, key)
		}
		return nil
	}
	return fmt.Errorf("%w: answer %q is not one of a, b, c, d", ErrInvalidQuestion, q.Answer)
}

// ListSaved returns every saved record, newest first.
func (r *Repository) ListSaved(ctx context.Context) ([]entities.QuizRecord, error) {
	var records []entities.QuizRecord
	err := r.db.WithContext(ctx).Order("question_id DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved questions: %w", err)
	}
	return records, nil
}

// Count returns the number of saved records.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.QuizRecord{}).Count(&total).Error
	return total, err
}
