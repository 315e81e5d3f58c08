package snapshot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/yukinote/yuki/internal/crypto"
)

const backupTimeLayout = "20060102T150405Z"

// Backups writes timestamped copies of store images and prunes old ones.
// With an Encryptor set, copies are sealed and named *.sqlite.enc.
type Backups struct {
	Dir  string
	Keep int
	// Prefix is prepended to backup file names.
	Prefix    string
	Encryptor *crypto.Encryptor
}

// NewBackups returns a backup set that retains the newest keep copies.
// enc may be nil for plaintext backups.
func NewBackups(dir, prefix string, keep int, enc *crypto.Encryptor) *Backups {
	return &Backups{Dir: dir, Keep: keep, Prefix: prefix, Encryptor: enc}
}

func (b *Backups) extension() string {
	if b.Encryptor != nil {
		return ".sqlite.enc"
	}
	return ".sqlite"
}

// Write stores image as a new backup stamped with now and prunes the set.
// Returns the path of the new backup.
func (b *Backups) Write(ctx context.Context, image []byte, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := image
	if b.Encryptor != nil {
		sealed, err := b.Encryptor.Seal(image)
		if err != nil {
			return "", fmt.Errorf("seal backup: %w", err)
		}
		data = sealed
	}

	name := fmt.Sprintf("%s_%s%s", b.Prefix, now.UTC().Format(backupTimeLayout), b.extension())
	path := filepath.Join(b.Dir, name)
	if err := writeAtomic(b.Dir, path, data); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	removed, err := b.Prune()
	if err != nil {
		return path, fmt.Errorf("prune backups: %w", err)
	}
	if removed > 0 {
		log.Printf("Snapshot: pruned %d old backups from %s", removed, b.Dir)
	}
	return path, nil
}

// List returns backup paths, oldest first.
func (b *Backups) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(b.Dir, b.Prefix+"_*"+b.extension()))
	if err != nil {
		return nil, err
	}
	// The timestamp layout sorts lexically.
	sort.Strings(matches)
	return matches, nil
}

// Prune removes all but the newest Keep backups. Keep <= 0 keeps everything.
func (b *Backups) Prune() (int, error) {
	if b.Keep <= 0 {
		return 0, nil
	}

	backups, err := b.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= b.Keep {
		return 0, nil
	}

	removed := 0
	for _, path := range backups[:len(backups)-b.Keep] {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Latest returns the newest backup path, or "" when there are none.
func (b *Backups) Latest() (string, error) {
	backups, err := b.List()
	if err != nil || len(backups) == 0 {
		return "", err
	}
	return backups[len(backups)-1], nil
}

// Read returns the image stored in the backup at path, opening it when sealed.
func (b *Backups) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if b.Encryptor == nil {
		return data, nil
	}
	image, err := b.Encryptor.Open(data)
	if err != nil {
		return nil, fmt.Errorf("open sealed backup: %w", err)
	}
	return image, nil
}
