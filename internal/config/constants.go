package config

const (
	DefaultPort = 8190

	// DefaultDatasetPrimaryLocation is where the bundled dictionary is looked up first
	DefaultDatasetPrimaryLocation = "./cc-cedict.sqlite"

	// DefaultDatasetSecondaryLocation is the fallback location of the bundled dictionary
	DefaultDatasetSecondaryLocation = "./public/cc-cedict.sqlite"

	DefaultSnapshotDir = "./data"

	// DefaultSnapshotKey names the persisted store image
	DefaultSnapshotKey = "cedict_db"

	DefaultQueryLimit = 1000
)
