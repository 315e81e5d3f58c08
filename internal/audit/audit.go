// Package audit keeps a copy of every payload accepted from outside the
// process, one JSON file per payload.
package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kinds of audited payloads.
const (
	KindQuizBatch = "quiz_batch"
)

// Record is the envelope written to disk.
type Record struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Origin     string    `json:"origin,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
	Payload    any       `json:"payload"`
}

type Auditor struct {
	AuditDir string
	now      func() time.Time
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
		now:      time.Now,
	}
}

// Save writes payload to <AuditDir>/<uuid>.json and returns the file name.
func (a *Auditor) Save(kind, origin string, payload any) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	record := Record{
		ID:         uuid.New().String(),
		Kind:       kind,
		Origin:     origin,
		ReceivedAt: a.now().UTC(),
		Payload:    payload,
	}
	filename := record.ID + ".json"

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(a.AuditDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}
	return filename, nil
}

// SaveQuizBatch audits an incoming batch of generated questions. Failures
// are logged and never block the caller.
func (a *Auditor) SaveQuizBatch(origin string, payload any) {
	if a == nil {
		return
	}
	filename, err := a.Save(KindQuizBatch, origin, payload)
	if err != nil {
		log.Printf("Audit: failed to save quiz batch: %v", err)
		return
	}
	log.Printf("Audit: saved quiz batch as %s", filename)
}

// Load reads back an audit record by file name.
func (a *Auditor) Load(filename string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(a.AuditDir, filename))
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse audit record: %w", err)
	}
	return &record, nil
}

// Prune removes audit files last modified before cutoff and returns how many
// were deleted. A missing audit directory is not an error.
func (a *Auditor) Prune(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(a.AuditDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return deleted, err
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(a.AuditDir, entry.Name())); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
