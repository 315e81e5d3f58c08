package entrypoint

import (
	"fmt"
	"net/http"

	"github.com/yukinote/yuki/internal/config"
	"github.com/yukinote/yuki/internal/crypto"
	"github.com/yukinote/yuki/internal/database"
	"github.com/yukinote/yuki/internal/dataset"
	"github.com/yukinote/yuki/internal/snapshot"
	"github.com/yukinote/yuki/internal/store"
)

// NewStoreProvider wires the dataset loader and snapshot slot described by cfg.
// The store itself is not loaded until the first Acquire.
func NewStoreProvider(cfg *config.Config) (*store.Provider, error) {
	enc, err := snapshotEncryptor(cfg)
	if err != nil {
		return nil, err
	}

	slot, err := snapshot.NewFileSlot(cfg.Snapshot.Dir, cfg.Snapshot.Key, enc)
	if err != nil {
		return nil, err
	}

	loader := dataset.NewLoader(
		cfg.Dataset.PrimaryLocation,
		cfg.Dataset.SecondaryLocation,
		&http.Client{Timeout: cfg.Dataset.FetchTimeout},
	)

	return store.NewProvider(store.Options{
		Loader:          loader,
		Slot:            slot,
		LogLevel:        database.ParseLogLevel(cfg.Store.SQLLogLevel),
		ValidateAnswers: cfg.Quiz.ValidateAnswers,
	}), nil
}

// NewSnapshotBackups returns the backup set for cfg. Backups are sealed with
// the same key as the snapshot slot.
func NewSnapshotBackups(cfg *config.Config) (*snapshot.Backups, error) {
	enc, err := snapshotEncryptor(cfg)
	if err != nil {
		return nil, err
	}
	return snapshot.NewBackups(cfg.Backup.Dir, cfg.Snapshot.Key, cfg.Backup.Keep, enc), nil
}

// snapshotEncryptor returns nil when no encryption key is configured.
func snapshotEncryptor(cfg *config.Config) (*crypto.Encryptor, error) {
	if cfg.Snapshot.EncryptionKey == "" {
		return nil, nil
	}
	enc, err := crypto.NewEncryptorFromBase64(cfg.Snapshot.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_ENCRYPTION_KEY: %w", err)
	}
	return enc, nil
}
