package scheduler

import (
	"context"
	"fmt"
	"time"

	"stock-digest/src/interfaces"
	"stock-digest/src/logger"
	"stock-digest/src/models"
	"stock-digest/src/report"
	"stock-digest/src/watchlist"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------

// Scheduler drives the report pipeline: on the cron schedule and on manual
// trigger it resolves the watchlist, fetches quotes and news concurrently,
// composes the report, delivers it, and records the outcome. A failed run
// never escapes the pipeline boundary; the next tick is the retry mechanism.
type Scheduler struct {
	Config   *models.MConfig
	Store    *watchlist.Store
	Quotes   interfaces.IQuoteSource
	News     interfaces.INewsSource
	Notifier interfaces.INotifier
	Logger   *logger.Logger

	// Optional collaborators; nil disables the feature.
	History     interfaces.IRunHistory
	StatusStore interfaces.IStatusStore

	cron   *cron.Cron
	status *statusTracker

	// onRunDone lets tests and callers await background runs.
	onRunDone func(error)

	// onSnapshot receives each run's quotes; the HTTP layer feeds them to
	// the websocket clients.
	onSnapshot func([]models.MQuote)
}

// -----------------------------------------------------------------------------

func NewScheduler(
	cfg *models.MConfig,
	store *watchlist.Store,
	quotes interfaces.IQuoteSource,
	news interfaces.INewsSource,
	notifier interfaces.INotifier,
	history interfaces.IRunHistory,
	statusStore interfaces.IStatusStore,
) *Scheduler {
	s := &Scheduler{
		Config:      cfg,
		Store:       store,
		Quotes:      quotes,
		News:        news,
		Notifier:    notifier,
		History:     history,
		StatusStore: statusStore,
		Logger:      logger.NewLogger("Scheduler"),
		status:      newStatusTracker(cfg.Schedule, "UTC"),
	}

	if statusStore != nil {
		if restored, err := statusStore.LoadStatus(); err != nil {
			s.Logger.Warning("Failed to restore run status: %v", err)
		} else if restored != nil {
			s.status.restore(*restored, cfg.Schedule, "UTC")
			s.Logger.Info("Restored run status: %d attempts, %d successes", restored.TotalAttempts, restored.TotalSuccess)
		}
	}

	return s
}

// -----------------------------------------------------------------------------

// SetRunDoneHook registers a callback invoked after every run completes.
func (s *Scheduler) SetRunDoneHook(hook func(error)) {
	s.onRunDone = hook
}

// SetSnapshotHook registers a callback receiving each run's fetched quotes.
func (s *Scheduler) SetSnapshotHook(hook func([]models.MQuote)) {
	s.onSnapshot = hook
}

// -----------------------------------------------------------------------------

// Start registers the cron entry and begins the schedule. The expression is
// a 5-field calendar cron evaluated in UTC regardless of host timezone.
func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithLocation(time.UTC))

	if _, err := s.cron.AddFunc(s.Config.Schedule, func() {
		s.Run(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.Config.Schedule, err)
	}

	s.cron.Start()
	s.Logger.Info("Scheduled reports: %s", DescribeCron(s.Config.Schedule))
	return nil
}

// -----------------------------------------------------------------------------

// Stop halts the schedule. A run that is mid-flight is allowed to finish or
// be abandoned at process exit; no partial state is persisted mid-run.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// -----------------------------------------------------------------------------

// TriggerReport starts one pipeline run in the background and returns
// immediately. Concurrent triggers are accepted; RunStatus writes are
// serialized by the tracker, so racing runs settle last-write-wins per run.
func (s *Scheduler) TriggerReport() {
	go s.Run(context.Background())
}

// -----------------------------------------------------------------------------

// RunStatus returns a snapshot of the bookkeeping record.
func (s *Scheduler) RunStatus() models.MRunStatus {
	return s.status.snapshot()
}

// -----------------------------------------------------------------------------

// Run executes one pipeline pass synchronously and records the outcome.
// It returns the run error for the --test path; scheduled and manual
// invocations ignore it.
func (s *Scheduler) Run(ctx context.Context) (runErr error) {
	started := time.Now().UTC()
	s.Logger.Info("Starting stock report generation...")

	var quoteCount, articleCount int

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("pipeline panic: %v", r)
		}
		s.recordOutcome(started, runErr, quoteCount, articleCount)
	}()

	// 1. Current watchlist.
	symbols := s.Store.List()

	// 2+3. Quotes and news have no dependency on each other; fetch both at once.
	var quotes []models.MQuote
	var articles []models.MNewsArticle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.Quotes.FetchQuotes(gctx, symbols)
		if err != nil {
			// Wholesale transport failure: every symbol errored.
			s.Logger.Error("Quote fetch failed wholesale: %v", err)
			fetched = make([]models.MQuote, 0, len(symbols))
			for _, sym := range symbols {
				fetched = append(fetched, models.ErrorQuote(sym, fmt.Sprintf("Failed to fetch data: %v", err)))
			}
		}
		quotes = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.News.FetchNews(gctx, symbols, s.Config.News.WindowDays)
		if err != nil {
			// News is best effort; a report without articles still goes out.
			s.Logger.Error("News fetch failed: %v", err)
			fetched = nil
		}
		articles = fetched
		return nil
	})
	g.Wait()

	quoteCount = len(quotes)
	articleCount = len(articles)

	if s.onSnapshot != nil {
		s.onSnapshot(quotes)
	}

	// 4. Compose and render.
	doc := report.Compose(quotes, articles)
	html, err := report.Render(doc)
	if err != nil {
		return err
	}

	// 5. Deliver.
	if err := s.Notifier.Send(ctx, report.Subject(doc.GeneratedAt), html); err != nil {
		return err
	}

	s.Logger.Info("Report sent: %d quotes, %d articles", quoteCount, articleCount)
	return nil
}

// -----------------------------------------------------------------------------

func (s *Scheduler) recordOutcome(started time.Time, runErr error, quoteCount, articleCount int) {
	finished := time.Now().UTC()
	status := s.status.record(started, finished, runErr)

	if runErr != nil {
		s.Logger.Error("Report run failed: %v", runErr)
	}

	if s.StatusStore != nil {
		if err := s.StatusStore.SaveStatus(status); err != nil {
			s.Logger.Warning("Failed to persist run status: %v", err)
		}
	}

	if s.History != nil {
		rec := models.MRunRecord{
			StartedAt:    started,
			FinishedAt:   finished,
			OK:           runErr == nil,
			QuoteCount:   quoteCount,
			ArticleCount: articleCount,
			Recipient:    s.Config.Email.To,
		}
		if runErr != nil {
			rec.Error = runErr.Error()
		}
		if err := s.History.RecordRun(rec); err != nil {
			s.Logger.Warning("Failed to record run history: %v", err)
		}
	}

	if s.onRunDone != nil {
		s.onRunDone(runErr)
	}
}

// -----------------------------------------------------------------------------

// Interface guard
var _ interfaces.IReportRunner = (*Scheduler)(nil)
