package interfaces

import "stock-digest/src/models"

// -----------------------------------------------------------------------------
// IRunHistory defines the contract for the pipeline run log.
// -----------------------------------------------------------------------------

type IRunHistory interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// RecordRun appends one pipeline run outcome.
	RecordRun(rec models.MRunRecord) error

	// -----------------------------------------------------------------------------

	// RecentRuns returns the latest runs, newest first.
	RecentRuns(limit int) ([]models.MRunRecord, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
