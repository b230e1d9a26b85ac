package interfaces

import "stock-digest/src/models"

// -----------------------------------------------------------------------------
// IReportRunner is the scheduler surface the HTTP layer depends on.
// -----------------------------------------------------------------------------

type IReportRunner interface {

	// TriggerReport starts one pipeline run in the background and returns
	// immediately. Progress is observed through RunStatus.
	TriggerReport()

	// -----------------------------------------------------------------------------

	// RunStatus returns a snapshot of the bookkeeping record.
	RunStatus() models.MRunStatus
}
