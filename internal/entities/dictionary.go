package entities

// DictionaryTableName is the table holding dictionary entries in the bundled dataset.
const DictionaryTableName = "Words"

// DictionaryEntry is one row of the bundled dictionary dataset.
// Entries are loaded in bulk and never modified at runtime.
type DictionaryEntry struct {
	ID          int64    `gorm:"column:id;primaryKey" json:"id"`
	Simplified  string   `gorm:"column:simplified" json:"simplified"`
	Traditional string   `gorm:"column:traditional" json:"traditional"`
	Pinyin      string   `gorm:"column:pronunciation" json:"pinyin"`
	Meaning     string   `gorm:"column:definitions" json:"meaning"`
	Frequency   *float64 `gorm:"column:frequency" json:"frequency,omitempty"` // only present in some datasets
}

func (DictionaryEntry) TableName() string {
	return DictionaryTableName
}
