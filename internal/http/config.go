package http

import (
	"github.com/yukinote/yuki/internal/audit"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Stores StoreProvider

	// Auditor keeps a copy of incoming quiz payloads (optional)
	Auditor *audit.Auditor

	// Paging limits for dictionary search
	DefaultLimit int
	MaxLimit     int

	// Application info
	Version string
}
