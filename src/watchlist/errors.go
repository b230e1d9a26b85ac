package watchlist

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Watchlist error taxonomy. All three are user-facing validation failures and
// map to 400 at the HTTP layer.
// -----------------------------------------------------------------------------

type InvalidSymbolError struct {
	Symbols []string
}

func (e *InvalidSymbolError) Error() string {
	if len(e.Symbols) == 1 {
		return "invalid stock symbol format"
	}
	return fmt.Sprintf("invalid symbols: %s", strings.Join(e.Symbols, ", "))
}

// -----------------------------------------------------------------------------

type DuplicateSymbolError struct {
	Symbol string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("stock %s already exists", e.Symbol)
}

// -----------------------------------------------------------------------------

type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stock %s not found", e.Symbol)
}
