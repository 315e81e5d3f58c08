package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yukinote/yuki/internal/database"
	"github.com/yukinote/yuki/internal/database/dictionary"
	"github.com/yukinote/yuki/internal/database/quiz"
	"github.com/yukinote/yuki/internal/entities"
	"github.com/yukinote/yuki/internal/snapshot"
)

// Source names where the Store's initial image came from.
type Source string

const (
	SourceSnapshot Source = "snapshot"
	SourceDataset  Source = "dataset"
)

// SaveResult describes a persisted quiz batch.
type SaveResult struct {
	Saved     int       `json:"saved"`
	CreatedAt time.Time `json:"created_at"`
	// Checkpointed is false when the batch is only held in memory.
	Checkpointed bool `json:"checkpointed"`
}

// Store is the loaded dictionary plus quiz records.
//
// Reads share mu; a quiz write and the checkpoint that follows it hold mu
// exclusively, so a checkpoint never captures a half-written batch.
type Store struct {
	mu sync.RWMutex

	db         *database.Database
	dictionary *dictionary.Repository
	quiz       *quiz.Repository
	slot       snapshot.Slot
	now        func() time.Time
	source     Source
}

func newStore(db *database.Database, opts Options, source Source) *Store {
	return &Store{
		db:         db,
		dictionary: dictionary.NewRepository(db.DB),
		quiz:       quiz.NewRepository(db.DB, opts.ValidateAnswers),
		slot:       opts.Slot,
		now:        opts.Now,
		source:     source,
	}
}

// Source reports where the initial image came from.
func (s *Store) Source() Source {
	return s.source
}

// Search returns matching entries, or none if the query fails.
func (s *Store) Search(ctx context.Context, text string, opts dictionary.QueryOptions) []entities.DictionaryEntry {
	entries, err := s.TrySearch(ctx, text, opts)
	if err != nil {
		log.Printf("Store: search %q failed: %v", text, err)
		return []entities.DictionaryEntry{}
	}
	return entries
}

// TrySearch is Search with the failure reported.
func (s *Store) TrySearch(ctx context.Context, text string, opts dictionary.QueryOptions) ([]entities.DictionaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionary.Search(ctx, text, opts)
}

// Count returns the number of matching entries, or 0 if the query fails.
func (s *Store) Count(ctx context.Context, text string) int64 {
	total, err := s.TryCount(ctx, text)
	if err != nil {
		log.Printf("Store: count %q failed: %v", text, err)
		return 0
	}
	return total
}

func (s *Store) TryCount(ctx context.Context, text string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionary.Count(ctx, text)
}

// Lookup returns the entry with the given simplified form.
func (s *Store) Lookup(ctx context.Context, simplified string) (*entities.DictionaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionary.GetBySimplified(ctx, simplified)
}

// HasFrequency reports whether the dataset carries frequency values.
func (s *Store) HasFrequency() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionary.HasFrequency()
}

// SaveQuizBatch writes questions in one transaction, then checkpoints.
// A failed checkpoint does not fail the save.
func (s *Store) SaveQuizBatch(ctx context.Context, questions []entities.GeneratedQuestion) (SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureSchemaLocked(ctx)

	createdAt := s.now()
	saved, err := s.quiz.SaveBatch(ctx, questions, createdAt)
	if err != nil {
		return SaveResult{}, err
	}

	result := SaveResult{Saved: saved, CreatedAt: createdAt}
	if err := s.checkpointLocked(ctx); err != nil {
		log.Printf("Store: checkpoint after saving %d questions failed: %v", saved, err)
	} else {
		result.Checkpointed = true
	}
	return result, nil
}

// ListSavedQuestions returns saved records newest first, or none on failure.
func (s *Store) ListSavedQuestions(ctx context.Context) []entities.QuizRecord {
	records, err := s.TryListSavedQuestions(ctx)
	if err != nil {
		log.Printf("Store: listing saved questions failed: %v", err)
		return []entities.QuizRecord{}
	}
	return records
}

func (s *Store) TryListSavedQuestions(ctx context.Context) ([]entities.QuizRecord, error) {
	s.EnsureSchema(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz.ListSaved(ctx)
}

// EnsureSchema migrates the quiz table and checkpoints if anything changed.
// Failures are logged; the store keeps its previous shape.
func (s *Store) EnsureSchema(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSchemaLocked(ctx)
}

func (s *Store) ensureSchemaLocked(ctx context.Context) int {
	applied, err := database.EnsureQuizSchema(ctx, s.db.DB)
	if err != nil {
		log.Printf("Store: schema migration failed: %v", err)
	}
	if applied == 0 {
		return 0
	}
	if err := s.checkpointLocked(ctx); err != nil {
		log.Printf("Store: checkpoint after migration failed: %v", err)
	}
	return applied
}

// Checkpoint saves the full current image to the snapshot slot.
func (s *Store) Checkpoint(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkpointLocked(ctx)
}

func (s *Store) checkpointLocked(ctx context.Context) error {
	image, err := s.db.Serialize(ctx)
	if err != nil {
		return err
	}
	if err := s.slot.Save(ctx, image); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Export returns the full current image.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Serialize(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
