package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Worker is a background job that polls for work until its context ends.
type Worker interface {
	Start(ctx context.Context)
	Name() string
}

// BaseWorker provides the shared ticker loop.
type BaseWorker struct {
	name     string
	interval time.Duration
	log      *slog.Logger
}

func NewBaseWorker(name string, interval time.Duration, log *slog.Logger) BaseWorker {
	return BaseWorker{
		name:     name,
		interval: interval,
		log:      log.With("worker", name),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Poll runs work once immediately and then on every tick until ctx is
// cancelled. Errors are logged and the loop continues.
func (w *BaseWorker) Poll(ctx context.Context, work func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval)

	if err := work(ctx); err != nil {
		w.log.Error("worker error", "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-ticker.C:
			if err := work(ctx); err != nil {
				w.log.Error("worker error", "err", err)
			}
		}
	}
}

// Run starts every worker in its own goroutine. The returned function blocks
// until all of them have returned.
func Run(ctx context.Context, workers ...Worker) (wait func()) {
	var wg sync.WaitGroup
	for _, w := range workers {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(ctx)
		}()
	}
	return wg.Wait
}
