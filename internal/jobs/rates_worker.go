package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/LucianBellevue/ba-website/internal/rates"
)

// RatesReloadWorker swaps in a new rate set when the rate file changes on
// disk. A file that fails to parse or validate leaves the current set live.
type RatesReloadWorker struct {
	BaseWorker
	registry *rates.Registry
	path     string
	modTime  time.Time
}

func NewRatesReloadWorker(registry *rates.Registry, path string, interval time.Duration, log *slog.Logger) *RatesReloadWorker {
	w := &RatesReloadWorker{
		BaseWorker: NewBaseWorker("rates_reload", interval, log),
		registry:   registry,
		path:       path,
	}
	if fi, err := os.Stat(path); err == nil {
		w.modTime = fi.ModTime()
	}
	return w
}

func (w *RatesReloadWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.checkFile)
}

func (w *RatesReloadWorker) checkFile(context.Context) error {
	fi, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("stat rate file: %w", err)
	}
	if !fi.ModTime().After(w.modTime) {
		return nil
	}
	w.modTime = fi.ModTime()

	prev := w.registry.Current().Version
	next, err := w.registry.ReloadFile(w.path)
	if err != nil {
		return err
	}
	w.log.Info("rate set reloaded", "from", prev, "to", next.Version)
	return nil
}
