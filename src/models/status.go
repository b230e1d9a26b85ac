package models

import "time"

// -----------------------------------------------------------------------------
// Run bookkeeping for the scheduled report pipeline.
// -----------------------------------------------------------------------------

// MRunStatus is mutated only by the scheduler after each pipeline run and read
// by the health endpoint. Persisted as JSON under the "email_status" key when
// a durable backend is connected.
type MRunStatus struct {
	LastAttempt   *time.Time `json:"lastAttempt"`
	LastSuccess   *time.Time `json:"lastSuccess"`
	LastError     *string    `json:"lastError"`
	TotalAttempts int        `json:"totalAttempts"`
	TotalSuccess  int        `json:"totalSuccess"`
	TotalFailures int        `json:"totalFailures"`
	Schedule      string     `json:"schedule"`
	Timezone      string     `json:"timezone"`
}

// -----------------------------------------------------------------------------

// MRunRecord is one row of the SQLite run history.
type MRunRecord struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	OK           bool      `json:"ok"`
	Error        string    `json:"error,omitempty"`
	QuoteCount   int       `json:"quoteCount"`
	ArticleCount int       `json:"articleCount"`
	Recipient    string    `json:"recipient"`
}
