// Package database provides the embedded store and its data access layer.
//
// # Architecture
//
// The store is a single in-memory SQLite database, opened from a dataset
// image and exported back to an image for checkpointing:
//
//	database/
//	├── database.go      # In-memory engine, image load (deserialize) and export (serialize)
//	├── schema.go        # Versioned, additive migrations of the quiz table
//	├── dictionary/      # Read-only substring search over dictionary entries
//	└── quiz/            # Transactional quiz batch writes and listing
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type over the shared *gorm.DB:
//
//	db, err := database.Open(ctx, image, database.Options{})
//	applied, err := database.EnsureQuizSchema(ctx, db.DB)
//
//	dict := dictionary.NewRepository(db.DB)
//	entries, err := dict.Search(ctx, "hao", dictionary.QueryOptions{Limit: 20})
//
//	quizzes := quiz.NewRepository(db.DB, true)
//	saved, err := quizzes.SaveBatch(ctx, questions, time.Now())
//
// Repositories are not synchronized. Callers that mix writes with
// Serialize must serialize access themselves; internal/store does.
package database
