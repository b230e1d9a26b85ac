package report

import (
	"testing"
	"time"

	"stock-digest/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeCountsDirections(t *testing.T) {
	quotes := []models.MQuote{
		{Symbol: "UP", Change: 1.5, ChangePercent: 2.0},
		{Symbol: "DOWN", Change: -0.5, ChangePercent: -1.0},
		{Symbol: "FLAT", Change: 0, ChangePercent: 0},
	}

	summary := Summarize(quotes)

	assert.Equal(t, 3, summary.Tracked)
	assert.Equal(t, 1, summary.Gainers)
	assert.Equal(t, 1, summary.Losers)
	assert.Equal(t, 1, summary.Unchanged)
}

func TestSummarizeSkipsErrorQuotes(t *testing.T) {
	quotes := []models.MQuote{
		{Symbol: "AAPL", Change: 1.0, ChangePercent: 0.5},
		{Symbol: "BAD", Error: true, Message: "Failed to fetch data: no quote data"},
	}

	summary := Summarize(quotes)

	assert.Equal(t, 1, summary.Tracked)
	assert.Equal(t, 1, summary.Gainers)
	require.NotNil(t, summary.BiggestGainer)
	assert.Equal(t, "AAPL", summary.BiggestGainer.Symbol)
}

func TestSummarizeBiggestMovers(t *testing.T) {
	quotes := []models.MQuote{
		{Symbol: "A", Change: 1, ChangePercent: 1.2},
		{Symbol: "B", Change: 2, ChangePercent: 3.4},
		{Symbol: "C", Change: -1, ChangePercent: -0.8},
		{Symbol: "D", Change: -3, ChangePercent: -2.9},
	}

	summary := Summarize(quotes)

	require.NotNil(t, summary.BiggestGainer)
	require.NotNil(t, summary.BiggestLoser)
	assert.Equal(t, "B", summary.BiggestGainer.Symbol)
	assert.Equal(t, "D", summary.BiggestLoser.Symbol)
}

func TestSummarizeTieKeepsFirst(t *testing.T) {
	quotes := []models.MQuote{
		{Symbol: "FIRST", Change: 1, ChangePercent: 2.0},
		{Symbol: "SECOND", Change: 1, ChangePercent: 2.0},
	}

	summary := Summarize(quotes)

	require.NotNil(t, summary.BiggestGainer)
	assert.Equal(t, "FIRST", summary.BiggestGainer.Symbol)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Tracked)
	assert.Nil(t, summary.BiggestGainer)
	assert.Nil(t, summary.BiggestLoser)
}

func TestSubject(t *testing.T) {
	date := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "Stock Report - Mar 9, 2026", Subject(date))
}
