package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

// SnapshotWorker periodically persists a dashboard snapshot
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type SnapshotWorker struct {
	dashboard *usecase.DashboardUseCase
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewSnapshotWorker creates a new worker that stores a snapshot every interval
func NewSnapshotWorker(dashboard *usecase.DashboardUseCase, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		dashboard: dashboard,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background snapshot loop. Does not block server startup.
func (w *SnapshotWorker) Start(ctx context.Context) error {
	logging.Default().Info("snapshot worker starting", "interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SnapshotWorker) Stop() {
	logging.Default().Info("snapshot worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("snapshot worker stopped")
}

func (w *SnapshotWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Initial snapshot so the dashboard has data right after boot
	if err := w.snapshot(ctx); err != nil {
		logging.Default().Error("initial snapshot failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.snapshot(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("snapshot failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("snapshot worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("snapshot worker context cancelled")
			return
		}
	}
}

func (w *SnapshotWorker) snapshot(ctx context.Context) error {
	start := time.Now()

	snapshot, err := w.dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}

	logging.Default().Info("snapshot stored",
		"id", snapshot.ID,
		"degraded", len(snapshot.Degraded),
		"duration", time.Since(start).String())

	return nil
}
