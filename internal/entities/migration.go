package entities

// SchemaMigration records one applied schema step.
type SchemaMigration struct {
	Version   int    `gorm:"column:version;primaryKey;autoIncrement:false" json:"version"`
	Name      string `gorm:"column:name;size:100" json:"name"`
	AppliedAt string `gorm:"column:applied_at" json:"applied_at"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}
