package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yukinote/yuki/internal/audit"
	"github.com/yukinote/yuki/internal/config"
	http_controllers "github.com/yukinote/yuki/internal/http"
	"github.com/yukinote/yuki/internal/scheduler"
	"github.com/yukinote/yuki/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Release the store only after in-flight requests are done with it.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting yuki v%s", version)

	provider, err := NewStoreProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to configure store: %v", err)
	}

	if cfg.Store.Preload {
		// A failed preload is not fatal: requests retry the load and answer 503 meanwhile.
		go func() {
			if _, err := provider.Acquire(context.Background()); err != nil {
				log.Printf("WARNING: store preload failed: %v", err)
			}
		}()
	}

	var auditor *audit.Auditor
	if cfg.Audit.Enabled {
		auditor = audit.NewAuditor(cfg.Audit.Dir)
	}

	schedCtx, schedCancel := context.WithCancel(context.Background())

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled && auditor != nil && cfg.Audit.RetentionDays > 0 {
		taskClient, err = startTasks(schedCtx, cfg, auditor)
		if err != nil {
			log.Printf("WARNING: task queue disabled: %v", err)
			taskClient = nil
		}
	}
	var backupScheduler *scheduler.SnapshotBackupScheduler
	if cfg.Backup.Enabled {
		backups, err := NewSnapshotBackups(cfg)
		if err != nil {
			log.Fatalf("Failed to configure snapshot backups: %v", err)
		}
		backupScheduler = scheduler.NewSnapshotBackupScheduler(provider, backups, cfg.Backup.Schedule)
		if err := backupScheduler.Start(schedCtx); err != nil {
			log.Printf("WARNING: snapshot backups disabled: %v", err)
		}
	} else {
		log.Printf("Snapshot backup scheduler: disabled")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Stores:       provider,
		Auditor:      auditor,
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
		Version:      version,
	})

	onShutdown := func(ctx context.Context) {
		schedCancel()
		if backupScheduler != nil {
			backupScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}
		if err := provider.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}

	Serve(router, cfg, onShutdown)
}

// startTasks opens the task queue next to the snapshot and schedules daily
// audit pruning.
func startTasks(ctx context.Context, cfg *config.Config, auditor *audit.Auditor) (*tasks.Client, error) {
	taskCfg := tasks.DefaultConfig()
	taskCfg.Workers = cfg.Tasks.Workers

	client, err := tasks.NewClient(cfg.Snapshot.Dir, taskCfg)
	if err != nil {
		return nil, err
	}
	generation := uuid.NewString()
	client.Register(tasks.NewPruneAuditQueue(auditor, client, generation))
	go client.Start(ctx)

	prune := tasks.PruneAuditTask{
		RetentionDays: cfg.Audit.RetentionDays,
		Every:         24 * time.Hour,
		Generation:    generation,
	}
	if _, err := client.Add(prune).Save(); err != nil {
		log.Printf("WARNING: failed to schedule audit pruning: %v", err)
	}
	return client, nil
}
