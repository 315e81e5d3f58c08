package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yukinote/yuki/internal/store"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ImageSource provides the store image to back up.
type ImageSource interface {
	Current() (*store.Store, error)
}

// BackupWriter persists one backup image.
type BackupWriter interface {
	Write(ctx context.Context, image []byte, now time.Time) (string, error)
}

// SnapshotBackupScheduler periodically copies the store image to the backup set.
type SnapshotBackupScheduler struct {
	source   ImageSource
	backups  BackupWriter
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	lastRun   *BackupRun
}

// BackupRun describes the outcome of one backup attempt.
type BackupRun struct {
	At   time.Time
	Path string
	Err  error
}

// NewSnapshotBackupScheduler creates a new scheduler instance
func NewSnapshotBackupScheduler(source ImageSource, backups BackupWriter, schedule string) *SnapshotBackupScheduler {
	return &SnapshotBackupScheduler{
		source:   source,
		backups:  backups,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start schedules the backup job. The job stops when ctx is done.
func (s *SnapshotBackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Snapshot backup scheduler: started with schedule '%s'. Next run: %v", s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running backup to finish and stops the scheduler.
func (s *SnapshotBackupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	// The running job records its result under mu, so wait without holding it.
	done := s.cron.Stop()
	<-done.Done()
	s.cron.Remove(s.entryID)

	log.Printf("Snapshot backup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *SnapshotBackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur
func (s *SnapshotBackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

// LastRun returns the most recent backup attempt, nil before the first one.
func (s *SnapshotBackupScheduler) LastRun() *BackupRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// RunNow performs one backup. A store that is not loaded yet is skipped.
func (s *SnapshotBackupScheduler) RunNow(ctx context.Context) (string, error) {
	run := &BackupRun{At: time.Now()}
	run.Path, run.Err = s.backup(ctx, run.At)

	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()

	switch {
	case errors.Is(run.Err, store.ErrNotReady):
		log.Printf("Snapshot backup: skipped (store not loaded)")
	case run.Err != nil:
		log.Printf("Snapshot backup: failed: %v", run.Err)
	default:
		log.Printf("Snapshot backup: wrote %s", run.Path)
	}
	return run.Path, run.Err
}

func (s *SnapshotBackupScheduler) backup(ctx context.Context, now time.Time) (string, error) {
	st, err := s.source.Current()
	if err != nil {
		return "", err
	}

	image, err := st.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("export store: %w", err)
	}
	return s.backups.Write(ctx, image, now)
}
