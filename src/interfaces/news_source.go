package interfaces

import (
	"context"

	"stock-digest/src/models"
)

// -----------------------------------------------------------------------------
// INewsSource interface for fetching recent articles for tracked symbols.
// -----------------------------------------------------------------------------

type INewsSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchNews returns articles for the given symbols over a trailing
	// windowDays window, capped per symbol and globally, sorted by
	// published timestamp descending. Per-symbol failures are tolerated.
	FetchNews(ctx context.Context, symbols []string, windowDays int) ([]models.MNewsArticle, error)
}
