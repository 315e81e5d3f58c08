// Package dictionary provides read-only search over dictionary entries.
//
// # Matching
//
// A non-empty query matches an entry when it occurs as a literal substring
// of the simplified form, the traditional form, the pronunciation or the
// definitions. The query is matched as given, without Unicode
// normalization, so composed and decomposed forms are distinct. Matching
// follows SQLite LIKE, so ASCII letters compare case-insensitively. An empty or whitespace-only query matches every entry.
//
// # Usage
//
//	repo := dictionary.NewRepository(db)
//	entries, err := repo.Search(ctx, "hao", dictionary.QueryOptions{Limit: 20, SortBy: dictionary.SortPinyin})
//	total, err := repo.Count(ctx, "hao")
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukinote/yuki/internal/entities"
)

// DefaultLimit is the page size used when QueryOptions.Limit is zero.
const DefaultLimit = 1000

// SortKey selects the result order.
type SortKey string

const (
	// SortFrequency orders by identifier, newest first. It does not read the
	// frequency column even when the dataset has one.
	SortFrequency SortKey = "frequency"
	// SortPinyin orders by pronunciation with identifier as tie-break.
	SortPinyin SortKey = "pinyin"
)

var (
	ErrEntryNotFound   = errors.New("dictionary entry not found")
	ErrUnsupportedSort = errors.New("unsupported sort key")
)

// QueryOptions controls paging and order. Limit 0 means DefaultLimit and a
// negative Limit means no limit. Empty SortBy means SortFrequency.
type QueryOptions struct {
	Limit  int
	Offset int
	SortBy SortKey
}

// ParseSortKey validates s, mapping "" to SortFrequency.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortFrequency:
		return SortFrequency, nil
	case SortPinyin:
		return SortPinyin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSort, s)
}

// Repository handles dictionary queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new dictionary repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Search returns one page of entries matching text.
func (r *Repository) Search(ctx context.Context, text string, opts QueryOptions) ([]entities.DictionaryEntry, error) {
	order, err := orderClause(opts.SortBy)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	// A negative limit drops the LIMIT clause; the sqlite dialect still
	// emits "LIMIT -1 OFFSET n" when only an offset is set.
	query := r.matching(ctx, text).Order(order).Limit(limit)
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var entries []entities.DictionaryEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to search dictionary: %w", err)
	}
	return entries, nil
}

// Count returns the number of entries matching text, ignoring paging.
func (r *Repository) Count(ctx context.Context, text string) (int64, error) {
	var total int64
	if err := r.matching(ctx, text).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count dictionary entries: %w", err)
	}
	return total, nil
}

// GetBySimplified returns the lowest-id entry with exactly the given simplified form.
func (r *Repository) GetBySimplified(ctx context.Context, simplified string) (*entities.DictionaryEntry, error) {
	var entry entities.DictionaryEntry
	err := r.db.WithContext(ctx).
		Where("simplified = ?", simplified).
		Order("id ASC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, simplified)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", simplified, err)
	}
	return &entry, nil
}

// HasFrequency reports whether the loaded dataset carries a frequency column.
func (r *Repository) HasFrequency() bool {
	return r.db.Migrator().HasColumn(&entities.DictionaryEntry{}, "frequency")
}

func (r *Repository) matching(ctx context.Context, text string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entities.DictionaryEntry{})
	if strings.TrimSpace(text) == "" {
		return query
	}

	pattern := "%" + escapeLike(text) + "%"
	return query.Where(
		`simplified LIKE @p ESCAPE '\' OR traditional LIKE @p ESCAPE '\' OR pronunciation LIKE @p ESCAPE '\' OR definitions LIKE @p ESCAPE '\'`,
		map[string]any{"p": pattern},
	)
}

func orderClause(sortBy SortKey) (string, error) {
	switch sortBy {
	case "", SortFrequency:
		return "id DESC", nil
	case SortPinyin:
		return "pronunciation ASC, id ASC", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSort, sortBy)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
