package interfaces

import (
	"context"

	"stock-digest/src/models"
)

// -----------------------------------------------------------------------------
// IQuoteSource interface for fetching price snapshots from an external source.
// -----------------------------------------------------------------------------

type IQuoteSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchQuotes returns one MQuote per input symbol, in input order.
	// Per-symbol failures are captured as error-tagged entries; a non-nil
	// error means a wholesale transport failure and the caller treats it
	// as every symbol errored.
	FetchQuotes(ctx context.Context, symbols []string) ([]models.MQuote, error)
}
