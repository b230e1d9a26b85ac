package interfaces

import "stock-digest/src/models"

// -----------------------------------------------------------------------------
// ISymbolBackend defines the contract for watchlist persistence.
// -----------------------------------------------------------------------------

type ISymbolBackend interface {

	// Name identifies the backend ("redis", "envfile").
	Name() string

	// -----------------------------------------------------------------------------

	// LoadSymbols returns the persisted symbol list. found is false when the
	// backend holds no prior state.
	LoadSymbols() (symbols []string, found bool, err error)

	// -----------------------------------------------------------------------------

	// SaveSymbols persists the list verbatim, including empty.
	SaveSymbols(symbols []string) error
}

// -----------------------------------------------------------------------------
// IStatusStore persists the scheduler's RunStatus between restarts.
// Implemented by the durable backend only; optional.
// -----------------------------------------------------------------------------

type IStatusStore interface {

	// LoadStatus returns the persisted status, or nil when none exists.
	LoadStatus() (*models.MRunStatus, error)

	// -----------------------------------------------------------------------------

	SaveStatus(status models.MRunStatus) error
}
