package models

import "time"

// -----------------------------------------------------------------------------
// Composed report document
// -----------------------------------------------------------------------------

// MMarketSummary aggregates the non-error quotes of one report.
type MMarketSummary struct {
	Tracked       int     `json:"tracked"`
	Gainers       int     `json:"gainers"`
	Losers        int     `json:"losers"`
	Unchanged     int     `json:"unchanged"`
	BiggestGainer *MQuote `json:"biggestGainer,omitempty"`
	BiggestLoser  *MQuote `json:"biggestLoser,omitempty"`
}

// MReport is the renderable document handed to the notifier.
type MReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Quotes      []MQuote       `json:"quotes"`
	Articles    []MNewsArticle `json:"articles"`
	Summary     MMarketSummary `json:"summary"`
}

// -----------------------------------------------------------------------------
// Live update payload pushed over the websocket feed
// -----------------------------------------------------------------------------

type MLiveUpdate struct {
	Type      string   `json:"type"` // "INITIAL" or "UPDATE"
	Data      []MQuote `json:"data"`
	Timestamp int64    `json:"timestamp"`
}
