package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/yukinote/yuki/internal/dataset"
	"github.com/yukinote/yuki/internal/http"
	"github.com/yukinote/yuki/internal/scheduler"
	"github.com/yukinote/yuki/internal/snapshot"
	"github.com/yukinote/yuki/internal/store"
)

// =============================================================================
// Store lifecycle
// =============================================================================

// StoreProvider implementations
var _ http.StoreProvider = (*store.Provider)(nil)

// ImageSource implementations
var _ scheduler.ImageSource = (*store.Provider)(nil)

// DatasetLoader implementations
var _ store.DatasetLoader = (*dataset.Loader)(nil)

// =============================================================================
// Persistence
// =============================================================================

// Slot implementations
var _ snapshot.Slot = (*snapshot.FileSlot)(nil)
var _ snapshot.Slot = (*snapshot.MemorySlot)(nil)

// BackupWriter implementations
var _ scheduler.BackupWriter = (*snapshot.Backups)(nil)

// =============================================================================
// Dataset sources
// =============================================================================

// Source implementations
var _ dataset.Source = (*dataset.FileSource)(nil)
var _ dataset.Source = (*dataset.HTTPSource)(nil)
