// Package dbtest builds small dictionary stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/yukinote/yuki/internal/database"
	"github.com/yukinote/yuki/internal/entities"
)

// ScenarioEntries are the three entries used across package tests.
// By pronunciation they sort 好 hǎo, 名 míng, 你 nǐ.
var ScenarioEntries = []entities.DictionaryEntry{
	{ID: 1, Simplified: "你", Traditional: "你", Pinyin: "nǐ", Meaning: "You"},
	{ID: 2, Simplified: "好", Traditional: "好", Pinyin: "hǎo", Meaning: "Good"},
	{ID: 3, Simplified: "名", Traditional: "名", Pinyin: "míng", Meaning: "Name"},
}

const wordsDDL = `CREATE TABLE Words (
	id INTEGER PRIMARY KEY,
	simplified TEXT,
	traditional TEXT,
	pronunciation TEXT,
	definitions TEXT%s
)`

// NewDictionary opens an in-memory store holding entries in a Words table.
// The frequency column is only created when some entry carries a frequency.
func NewDictionary(t *testing.T, entries []entities.DictionaryEntry) *database.Database {
	t.Helper()

	db, err := database.Open(context.Background(), nil, database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	withFrequency := false
	for _, e := range entries {
		if e.Frequency != nil {
			withFrequency = true
		}
	}

	extra := ""
	if withFrequency {
		extra = ",\n\tfrequency REAL"
	}
	require.NoError(t, db.DB.Exec(fmt.Sprintf(wordsDDL, extra)).Error)

	for _, e := range entries {
		if withFrequency {
			require.NoError(t, db.DB.Exec(
				"INSERT INTO Words (id, simplified, traditional, pronunciation, definitions, frequency) VALUES (?, ?, ?, ?, ?, ?)",
				e.ID, e.Simplified, e.Traditional, e.Pinyin, e.Meaning, e.Frequency,
			).Error)
			continue
		}
		require.NoError(t, db.DB.Exec(
			"INSERT INTO Words (id, simplified, traditional, pronunciation, definitions) VALUES (?, ?, ?, ?, ?)",
			e.ID, e.Simplified, e.Traditional, e.Pinyin, e.Meaning,
		).Error)
	}

	return db
}

// DictionaryImage returns the serialized image of a store holding entries.
func DictionaryImage(t *testing.T, entries []entities.DictionaryEntry) []byte {
	t.Helper()
	db := NewDictionary(t, entries)
	image, err := db.Serialize(context.Background())
	require.NoError(t, err)
	return image
}

// GeneratedEntries returns n synthetic entries with ids 1..n.
func GeneratedEntries(n int) []entities.DictionaryEntry {
	syllables := []string{"ā", "bō", "cí", "dé", "è", "fú", "gē", "hǎo", "lǜ", "míng", "nǐ", "zhōng"}
	entries := make([]entities.DictionaryEntry, 0, n)
	for i := 1; i <= n; i++ {
		syl := syllables[i%len(syllables)]
		entries = append(entries, entities.DictionaryEntry{
			ID:          int64(i),
			Simplified:  fmt.Sprintf("字%d", i),
			Traditional: fmt.Sprintf("字%d", i),
			Pinyin:      fmt.Sprintf("%s%d", syl, i%3),
			Meaning:     fmt.Sprintf("meaning %d of %s", i, syl),
		})
	}
	return entries
}
