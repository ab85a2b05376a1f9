package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/core"
)

func lead(id string, created time.Time, crm core.CRMStatus) core.Lead {
	return core.Lead{ID: id, Kind: core.LeadContactForm, CRM: core.CRMState{Status: crm}, CreatedAt: created, UpdatedAt: created}
}

func TestLeadRepoCreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepo()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, lead("lead_1", now, core.CRMPending)))
	assert.ErrorIs(t, repo.Create(ctx, lead("lead_1", now, core.CRMPending)), core.ErrConflict)

	got, err := repo.Get(ctx, "lead_1")
	require.NoError(t, err)
	assert.Equal(t, "lead_1", got.ID)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLeadRepoUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepo()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, lead("lead_1", now, core.CRMPending)))

	later := now.Add(time.Minute)
	require.NoError(t, repo.UpdateNotification(ctx, "lead_1", core.Notification{Status: core.NotificationSent}, later))
	require.NoError(t, repo.UpdateCRM(ctx, "lead_1", core.CRMState{Status: core.CRMSynced, ContactID: "c1", Attempts: 1}, later))

	got, err := repo.Get(ctx, "lead_1")
	require.NoError(t, err)
	assert.Equal(t, core.NotificationSent, got.Notification.Status)
	assert.Equal(t, core.CRMSynced, got.CRM.Status)
	assert.Equal(t, "c1", got.CRM.ContactID)
	assert.Equal(t, later, got.UpdatedAt)

	assert.ErrorIs(t, repo.UpdateCRM(ctx, "missing", core.CRMState{}, later), core.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateNotification(ctx, "missing", core.Notification{}, later), core.ErrNotFound)
}

func TestLeadRepoFindPendingCRM(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepo()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, lead(fmt.Sprintf("lead_%d", i), base.Add(time.Duration(5-i)*time.Minute), core.CRMPending)))
	}
	require.NoError(t, repo.Create(ctx, lead("synced", base, core.CRMSynced)))
	require.NoError(t, repo.Create(ctx, lead("skipped", base, core.CRMSkipped)))

	got, err := repo.FindPendingCRM(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "lead_4", got[0].ID, "oldest first")
	assert.Equal(t, "lead_3", got[1].ID)
	assert.Equal(t, "lead_2", got[2].ID)

	all, err := repo.FindPendingCRM(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
