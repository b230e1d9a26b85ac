package storage

import (
	"path/filepath"
	"testing"
	"time"

	"stock-digest/src/logger"
	"stock-digest/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *RunHistoryDB {
	t.Helper()
	db := NewRunHistoryDB(filepath.Join(t.TempDir(), "history.db"), logger.NewLogger("test"))
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunHistoryRoundTrip(t *testing.T) {
	db := newTestHistory(t)

	started := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	require.NoError(t, db.RecordRun(models.MRunRecord{
		StartedAt:    started,
		FinishedAt:   started.Add(3 * time.Second),
		OK:           true,
		QuoteCount:   5,
		ArticleCount: 20,
		Recipient:    "team@example.com",
	}))

	records, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.OK)
	assert.Equal(t, 5, rec.QuoteCount)
	assert.Equal(t, 20, rec.ArticleCount)
	assert.Equal(t, "team@example.com", rec.Recipient)
	assert.True(t, rec.StartedAt.Equal(started))
	assert.Empty(t, rec.Error)
}

func TestRunHistoryNewestFirst(t *testing.T) {
	db := newTestHistory(t)

	base := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.RecordRun(models.MRunRecord{
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Second),
			OK:         true,
		}))
	}

	records, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].StartedAt.After(records[1].StartedAt))
}

func TestRunHistoryRecordsFailure(t *testing.T) {
	db := newTestHistory(t)

	require.NoError(t, db.RecordRun(models.MRunRecord{
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		OK:         false,
		Error:      "email delivery failed: smtp: connection refused",
	}))

	records, err := db.RecentRuns(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].OK)
	assert.Contains(t, records[0].Error, "delivery failed")
}
