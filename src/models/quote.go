package models

// MQuote represents one symbol's price snapshot, or a per-symbol fetch
// failure. Error/Message are the tagged-error variant; the price fields are
// only meaningful when Error is false.
type MQuote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name,omitempty"`
	Price            float64 `json:"price,omitempty"`
	Change           float64 `json:"change,omitempty"`
	ChangePercent    float64 `json:"changePercent,omitempty"`
	PreviousClose    float64 `json:"previousClose,omitempty"`
	DayHigh          float64 `json:"dayHigh,omitempty"`
	DayLow           float64 `json:"dayLow,omitempty"`
	Volume           int64   `json:"volume,omitempty"`
	MarketCap        float64 `json:"marketCap,omitempty"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow,omitempty"`

	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// -----------------------------------------------------------------------------

// ErrorQuote builds the error-tagged variant for a symbol that failed to fetch.
func ErrorQuote(symbol, message string) MQuote {
	return MQuote{Symbol: symbol, Error: true, Message: message}
}
