package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-digest/src/logger"
	"stock-digest/src/models"
	"stock-digest/src/watchlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Fakes
// -----------------------------------------------------------------------------

type memoryBackend struct {
	symbols []string
}

func (m *memoryBackend) Name() string { return "memory" }
func (m *memoryBackend) LoadSymbols() ([]string, bool, error) {
	return append([]string(nil), m.symbols...), len(m.symbols) > 0, nil
}
func (m *memoryBackend) SaveSymbols(symbols []string) error {
	m.symbols = append([]string(nil), symbols...)
	return nil
}

type fakeQuotes struct {
	quotes []models.MQuote
	err    error
	panics bool
	calls  int
}

func (f *fakeQuotes) Name() string { return "fake-quotes" }
func (f *fakeQuotes) FetchQuotes(ctx context.Context, symbols []string) ([]models.MQuote, error) {
	f.calls++
	if f.panics {
		panic("quote source blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeNews struct {
	articles []models.MNewsArticle
	err      error
}

func (f *fakeNews) Name() string { return "fake-news" }
func (f *fakeNews) FetchNews(ctx context.Context, symbols []string, windowDays int) ([]models.MNewsArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type fakeNotifier struct {
	err      error
	sent     int
	subjects []string
	bodies   []string
}

func (f *fakeNotifier) Name() string { return "fake-smtp" }
func (f *fakeNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, htmlBody)
	return nil
}

type fakeStatusStore struct {
	persisted *models.MRunStatus
	saves     []models.MRunStatus
}

func (f *fakeStatusStore) LoadStatus() (*models.MRunStatus, error) { return f.persisted, nil }
func (f *fakeStatusStore) SaveStatus(status models.MRunStatus) error {
	f.saves = append(f.saves, status)
	return nil
}

type fakeHistory struct {
	records []models.MRunRecord
}

func (f *fakeHistory) Initialize() error { return nil }
func (f *fakeHistory) RecordRun(rec models.MRunRecord) error {
	f.records = append(f.records, rec)
	return nil
}
func (f *fakeHistory) RecentRuns(limit int) ([]models.MRunRecord, error) {
	return f.records, nil
}
func (f *fakeHistory) Close() error { return nil }

// -----------------------------------------------------------------------------

func testConfig() *models.MConfig {
	return &models.MConfig{
		Schedule: "0 8 * * *",
		Email:    models.MEmailConfig{To: "someone@example.com"},
		News:     models.MNewsConfig{WindowDays: 7, PerSymbolLimit: 5, TotalLimit: 20},
	}
}

func testStore(symbols []string) *watchlist.Store {
	return watchlist.NewStore(&memoryBackend{symbols: symbols}, nil, false, symbols, logger.NewLogger("test"))
}

func newTestScheduler(quotes *fakeQuotes, news *fakeNews, notifier *fakeNotifier) *Scheduler {
	return NewScheduler(testConfig(), testStore([]string{"AAPL", "MSFT"}), quotes, news, notifier, nil, nil)
}

// -----------------------------------------------------------------------------
// Run
// -----------------------------------------------------------------------------

func TestRunSuccessUpdatesStatus(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newTestScheduler(
		&fakeQuotes{quotes: []models.MQuote{{Symbol: "AAPL", Price: 100, Change: 1, ChangePercent: 1}}},
		&fakeNews{},
		notifier,
	)

	require.NoError(t, s.Run(context.Background()))

	status := s.RunStatus()
	assert.Equal(t, 1, status.TotalAttempts)
	assert.Equal(t, 1, status.TotalSuccess)
	assert.Equal(t, 0, status.TotalFailures)
	assert.NotNil(t, status.LastAttempt)
	assert.NotNil(t, status.LastSuccess)
	assert.Nil(t, status.LastError)
	assert.Equal(t, "0 8 * * *", status.Schedule)
	assert.Equal(t, "UTC", status.Timezone)

	require.Equal(t, 1, notifier.sent)
	assert.Contains(t, notifier.subjects[0], "Stock Report - ")
	assert.Contains(t, notifier.bodies[0], "AAPL")
}

func TestRunDeliveryFailure(t *testing.T) {
	deliveryErr := errors.New("smtp: connection refused")
	s := newTestScheduler(&fakeQuotes{}, &fakeNews{}, &fakeNotifier{err: deliveryErr})

	err := s.Run(context.Background())
	require.Error(t, err)

	status := s.RunStatus()
	assert.Equal(t, 1, status.TotalAttempts)
	assert.Equal(t, 0, status.TotalSuccess)
	assert.Equal(t, 1, status.TotalFailures)
	assert.NotNil(t, status.LastAttempt)
	assert.Nil(t, status.LastSuccess)
	require.NotNil(t, status.LastError)
	assert.Contains(t, *status.LastError, "connection refused")
}

func TestRunSuccessClearsLastError(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("boom")}
	s := newTestScheduler(&fakeQuotes{}, &fakeNews{}, notifier)

	require.Error(t, s.Run(context.Background()))
	require.NotNil(t, s.RunStatus().LastError)

	notifier.err = nil
	require.NoError(t, s.Run(context.Background()))

	status := s.RunStatus()
	assert.Equal(t, 2, status.TotalAttempts)
	assert.Equal(t, 1, status.TotalSuccess)
	assert.Equal(t, 1, status.TotalFailures)
	assert.Nil(t, status.LastError)
}

func TestRunWholesaleQuoteFailureStillDelivers(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newTestScheduler(&fakeQuotes{err: errors.New("yahoo unreachable")}, &fakeNews{}, notifier)

	require.NoError(t, s.Run(context.Background()))

	require.Equal(t, 1, notifier.sent)
	body := notifier.bodies[0]
	assert.Contains(t, body, "AAPL")
	assert.Contains(t, body, "MSFT")
	assert.Contains(t, body, "Failed to fetch data")
	assert.Contains(t, body, "No market data available.")
}

func TestRunNewsFailureIsBestEffort(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newTestScheduler(
		&fakeQuotes{quotes: []models.MQuote{{Symbol: "AAPL", Price: 100}}},
		&fakeNews{err: errors.New("finnhub 429")},
		notifier,
	)

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 1, notifier.sent)
	assert.Contains(t, notifier.bodies[0], "No recent news available.")
}

func TestRunRecoversFromPanic(t *testing.T) {
	s := newTestScheduler(&fakeQuotes{panics: true}, &fakeNews{}, &fakeNotifier{})

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline panic")
	assert.Equal(t, 1, s.RunStatus().TotalFailures)
}

// -----------------------------------------------------------------------------
// Trigger and bookkeeping collaborators
// -----------------------------------------------------------------------------

func TestTriggerReportRunsInBackground(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newTestScheduler(&fakeQuotes{}, &fakeNews{}, notifier)

	done := make(chan error, 1)
	s.SetRunDoneHook(func(err error) { done <- err })

	s.TriggerReport()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("triggered run did not complete")
	}

	assert.Equal(t, 1, notifier.sent)
	assert.Equal(t, 1, s.RunStatus().TotalAttempts)
}

func TestRunFeedsSnapshotHook(t *testing.T) {
	s := newTestScheduler(&fakeQuotes{quotes: []models.MQuote{{Symbol: "AAPL", Price: 100}}}, &fakeNews{}, &fakeNotifier{})

	var got []models.MQuote
	s.SetSnapshotHook(func(quotes []models.MQuote) { got = quotes })

	require.NoError(t, s.Run(context.Background()))
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Symbol)
}

func TestRunPersistsStatus(t *testing.T) {
	statusStore := &fakeStatusStore{}
	s := NewScheduler(testConfig(), testStore([]string{"AAPL"}), &fakeQuotes{}, &fakeNews{}, &fakeNotifier{}, nil, statusStore)

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, statusStore.saves, 1)
	assert.Equal(t, 1, statusStore.saves[0].TotalSuccess)
}

func TestSchedulerRestoresPersistedStatus(t *testing.T) {
	prev := time.Date(2026, time.March, 8, 8, 0, 0, 0, time.UTC)
	statusStore := &fakeStatusStore{persisted: &models.MRunStatus{
		LastAttempt:   &prev,
		LastSuccess:   &prev,
		TotalAttempts: 12,
		TotalSuccess:  11,
		TotalFailures: 1,
		Schedule:      "0 6 * * *", // stale, current config wins
	}}

	s := NewScheduler(testConfig(), testStore(nil), &fakeQuotes{}, &fakeNews{}, &fakeNotifier{}, nil, statusStore)

	status := s.RunStatus()
	assert.Equal(t, 12, status.TotalAttempts)
	assert.Equal(t, 11, status.TotalSuccess)
	assert.Equal(t, "0 8 * * *", status.Schedule)
	assert.Equal(t, "UTC", status.Timezone)
}

func TestRunRecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	s := NewScheduler(testConfig(), testStore([]string{"AAPL"}),
		&fakeQuotes{quotes: []models.MQuote{{Symbol: "AAPL", Price: 100}}},
		&fakeNews{articles: []models.MNewsArticle{{Symbol: "AAPL", Title: "t"}}},
		&fakeNotifier{}, history, nil)

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.True(t, rec.OK)
	assert.Equal(t, 1, rec.QuoteCount)
	assert.Equal(t, 1, rec.ArticleCount)
	assert.Equal(t, "someone@example.com", rec.Recipient)
	assert.Empty(t, rec.Error)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule = "not a schedule"
	s := NewScheduler(cfg, testStore(nil), &fakeQuotes{}, &fakeNews{}, &fakeNotifier{}, nil, nil)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
}
