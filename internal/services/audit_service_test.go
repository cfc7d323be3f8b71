package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/models"
)

func TestAuditServiceLog(t *testing.T) {
	f := newServiceFixture(t)

	err := f.audit.Log(testContext(), AuditEntry{
		ActorEmail: "admin@taskdeck.local",
		Action:     "user.create",
		Resource:   "alice@example.com",
		Result:     "success",
		Metadata:   map[string]any{"role": "USER"},
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, f.db.First(&entry).Error)
	require.NotEmpty(t, entry.ID)
	require.Equal(t, "user.create", entry.Action)
	require.Contains(t, entry.Metadata, `"role":"USER"`)
}

func TestAuditServicePurgeOlderThan(t *testing.T) {
	f := newServiceFixture(t)

	require.NoError(t, f.audit.Log(testContext(), AuditEntry{
		ActorEmail: "admin@taskdeck.local",
		Action:     "user.create",
		Resource:   "alice@example.com",
		Result:     "success",
	}))
	require.NoError(t, f.audit.Log(testContext(), AuditEntry{
		ActorEmail: "admin@taskdeck.local",
		Action:     "user.delete",
		Resource:   "alice@example.com",
		Result:     "success",
	}))

	// Backdate one entry past the cutoff.
	var entries []models.AuditLog
	require.NoError(t, f.db.Order("created_at").Find(&entries).Error)
	require.Len(t, entries, 2)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, f.db.Model(&models.AuditLog{}).
		Where("id = ?", entries[0].ID).
		Update("created_at", old).Error)

	purged, err := f.audit.PurgeOlderThan(testContext(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	var count int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
