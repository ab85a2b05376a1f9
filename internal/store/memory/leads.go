// Package memory is the default lead store: process-local, lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LucianBellevue/ba-website/internal/core"
)

type LeadRepo struct {
	mu    sync.RWMutex
	leads map[string]core.Lead
}

func NewLeadRepo() *LeadRepo {
	return &LeadRepo{leads: make(map[string]core.Lead)}
}

func (r *LeadRepo) Create(_ context.Context, lead core.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.leads[lead.ID]; exists {
		return fmt.Errorf("%w: lead %s already exists", core.ErrConflict, lead.ID)
	}
	r.leads[lead.ID] = lead
	return nil
}

func (r *LeadRepo) Get(_ context.Context, id string) (core.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return core.Lead{}, fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
	}
	return lead, nil
}

func (r *LeadRepo) UpdateNotification(_ context.Context, id string, n core.Notification, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
	}
	lead.Notification = n
	lead.UpdatedAt = updatedAt
	r.leads[id] = lead
	return nil
}

// FindPendingCRM returns the oldest leads awaiting CRM sync.
func (r *LeadRepo) FindPendingCRM(_ context.Context, limit int) ([]core.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Lead
	for _, l := range r.leads {
		if l.CRM.Status == core.CRMPending {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *LeadRepo) UpdateCRM(_ context.Context, id string, state core.CRMState, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return fmt.Errorf("%w: lead %s", core.ErrNotFound, id)
	}
	lead.CRM = state
	lead.UpdatedAt = updatedAt
	r.leads[id] = lead
	return nil
}

// Ping always succeeds.
func (r *LeadRepo) Ping(context.Context) error { return nil }

// Len reports how many leads are stored.
func (r *LeadRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}
