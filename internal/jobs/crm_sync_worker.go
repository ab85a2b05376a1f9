package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/LucianBellevue/ba-website/internal/core"
)

const crmBatchSize = 10

// CRMSyncWorker pushes captured leads into the CRM outside the request path.
type CRMSyncWorker struct {
	BaseWorker
	leads core.LeadService
}

func NewCRMSyncWorker(leads core.LeadService, interval time.Duration, log *slog.Logger) *CRMSyncWorker {
	return &CRMSyncWorker{
		BaseWorker: NewBaseWorker("crm_sync", interval, log),
		leads:      leads,
	}
}

func (w *CRMSyncWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.syncPending)
}

func (w *CRMSyncWorker) syncPending(ctx context.Context) error {
	n, err := w.leads.SyncCRM(ctx, crmBatchSize)
	if err != nil {
		return err
	}
	if n > 0 {
		w.log.Info("leads synced to crm", "count", n)
	}
	return nil
}
