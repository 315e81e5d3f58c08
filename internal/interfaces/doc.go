// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Store Lifecycle
//
//   - StoreProvider: Lazy, single-flight access to the store (internal/http/helpers.go)
//   - ImageSource: Read access to an already loaded store (internal/scheduler/snapshot_backup.go)
//   - DatasetLoader: Fetches and validates the bundled dictionary image (internal/store/provider.go)
//
// ## Persistence
//
//   - Slot: Durable storage for the serialized store image (internal/snapshot/slot.go)
//   - BackupWriter: Timestamped backup copies (internal/scheduler/snapshot_backup.go)
//
// ## Dataset Sources
//
//   - Source: One location the dataset may be fetched from (internal/dataset/source.go)
//
// # Adding a New Snapshot Slot
//
// To keep snapshots somewhere other than the local filesystem:
//
//  1. Implement Slot in internal/snapshot/
//
//     type ObjectStoreSlot struct {
//         bucket string
//         key    string
//     }
//
//     func (s *ObjectStoreSlot) Load(ctx context.Context) ([]byte, bool, error)
//     func (s *ObjectStoreSlot) Save(ctx context.Context, image []byte) error
//     func (s *ObjectStoreSlot) Delete(ctx context.Context) error
//
//     var _ Slot = (*ObjectStoreSlot)(nil)
//
//  2. Select it in entrypoint.NewStoreProvider
//
// # Adding a New Dataset Source
//
//  1. Implement Source in internal/dataset/
//
//  2. Return it from dataset.NewSource for the matching location scheme
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
