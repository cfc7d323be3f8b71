package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/database/testutil"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/services"
)

func TestCountOverdueTasks(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	now := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

	var done models.TaskStatus
	require.NoError(t, db.Where("name = ?", models.StatusDone).First(&done).Error)

	require.NoError(t, db.Create(&models.Task{Name: "late", Deadline: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Task{Name: "future", Deadline: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Task{Name: "finished", Deadline: now.Add(-time.Hour), StatusID: &done.ID}).Error)

	count, err := CountOverdueTasks(context.Background(), db, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	now := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	require.NoError(t, audit.Log(context.Background(), services.AuditEntry{
		ActorEmail: "admin@taskdeck.local",
		Action:     "user.create",
		Resource:   "alice@example.com",
		Result:     "success",
	}))
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("1 = 1").
		Update("created_at", now.AddDate(0, 0, -120)).Error)

	cleaner := NewCleaner(db, audit,
		WithNow(func() time.Time { return now }),
		WithAuditRetentionDays(90),
	)
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCleanerStartStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	cleaner := NewCleaner(db, audit)
	require.NoError(t, cleaner.Start())

	ctx := cleaner.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
