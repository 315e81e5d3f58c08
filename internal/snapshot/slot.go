// Package snapshot persists whole store images to a durable local slot.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/yukinote/yuki/internal/crypto"
)

// Slot is a single named location holding the latest store image.
type Slot interface {
	// Load returns the stored image. found is false when nothing has been saved yet.
	Load(ctx context.Context) (image []byte, found bool, err error)
	// Save replaces the stored image.
	Save(ctx context.Context, image []byte) error
	// Delete removes the stored image. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}

// FileSlot keeps the image at <Dir>/<Key>.sqlite, sealed with Encryptor when one is set.
type FileSlot struct {
	Dir       string
	Key       string
	Encryptor *crypto.Encryptor
}

// NewFileSlot creates the slot directory if needed.
func NewFileSlot(dir, key string, enc *crypto.Encryptor) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileSlot{Dir: dir, Key: key, Encryptor: enc}, nil
}

// Path returns the file backing the slot.
func (s *FileSlot) Path() string {
	name := s.Key + ".sqlite"
	if s.Encryptor != nil {
		name += ".enc"
	}
	return filepath.Join(s.Dir, name)
}

func (s *FileSlot) Load(ctx context.Context) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}

	if s.Encryptor != nil {
		data, err = s.Encryptor.Open(data)
		if err != nil {
			return nil, false, fmt.Errorf("open sealed snapshot: %w", err)
		}
	}
	return data, true, nil
}

func (s *FileSlot) Save(ctx context.Context, image []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := image
	if s.Encryptor != nil {
		sealed, err := s.Encryptor.Seal(image)
		if err != nil {
			return fmt.Errorf("seal snapshot: %w", err)
		}
		data = sealed
	}

	if err := writeAtomic(s.Dir, s.Path(), data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	log.Printf("Snapshot: saved %d bytes to %s", len(image), s.Path())
	return nil
}

func (s *FileSlot) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "snapshot_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, path)
}

// MemorySlot keeps the image in memory. Used by tests and one-shot CLI runs.
type MemorySlot struct {
	mu    sync.Mutex
	image []byte
	found bool
	saves int
}

// Saves reports how many times Save has been called.
func (s *MemorySlot) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemorySlot) Load(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.found {
		return nil, false, nil
	}
	return append([]byte(nil), s.image...), true, nil
}

func (s *MemorySlot) Save(ctx context.Context, image []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = append([]byte(nil), image...)
	s.found = true
	s.saves++
	return nil
}

func (s *MemorySlot) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = nil
	s.found = false
	return nil
}
