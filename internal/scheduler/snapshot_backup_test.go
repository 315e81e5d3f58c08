package scheduler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/yukinote/yuki/internal/database/dbtest"
	"github.com/yukinote/yuki/internal/snapshot"
	"github.com/yukinote/yuki/internal/store"
)

type staticLoader []byte

func (l staticLoader) Load(ctx context.Context) ([]byte, error) {
	return l, nil
}

func newProvider(t *testing.T) *store.Provider {
	t.Helper()
	p := store.NewProvider(store.Options{
		Loader:   staticLoader(dbtest.DictionaryImage(t, dbtest.ScenarioEntries)),
		Slot:     &snapshot.MemorySlot{},
		LogLevel: logger.Silent,
	})
	t.Cleanup(func() { p.Close() })
	return p
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"))
	assert.Error(t, ValidateCronSchedule("daily"))
}

func TestSnapshotBackupScheduler_RunNow(t *testing.T) {
	ctx := context.Background()

	t.Run("skips before the store is loaded", func(t *testing.T) {
		backups := snapshot.NewBackups(t.TempDir(), "cedict_db", 3, nil)
		s := NewSnapshotBackupScheduler(newProvider(t), backups, "0 3 * * *")

		_, err := s.RunNow(ctx)
		assert.ErrorIs(t, err, store.ErrNotReady)

		list, err := backups.List()
		require.NoError(t, err)
		assert.Empty(t, list)
		require.NotNil(t, s.LastRun())
		assert.ErrorIs(t, s.LastRun().Err, store.ErrNotReady)
	})

	t.Run("writes the current image", func(t *testing.T) {
		p := newProvider(t)
		_, err := p.Acquire(ctx)
		require.NoError(t, err)

		backups := snapshot.NewBackups(t.TempDir(), "cedict_db", 3, nil)
		s := NewSnapshotBackupScheduler(p, backups, "0 3 * * *")

		path, err := s.RunNow(ctx)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "SQLite format 3\x00", string(data[:16]))
		assert.Equal(t, path, s.LastRun().Path)
	})
}

func TestSnapshotBackupScheduler_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backups := snapshot.NewBackups(t.TempDir(), "cedict_db", 3, nil)
	s := NewSnapshotBackupScheduler(newProvider(t), backups, "0 3 * * *")

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())

	// starting twice is a no-op
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	assert.Nil(t, s.GetNextRunTime())
}

func TestSnapshotBackupScheduler_InvalidSchedule(t *testing.T) {
	s := NewSnapshotBackupScheduler(newProvider(t), snapshot.NewBackups(t.TempDir(), "x", 1, nil), "every day")
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
