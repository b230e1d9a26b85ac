package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"stock-digest/src/interfaces"
	"stock-digest/src/logger"
	"stock-digest/src/models"
)

const quoteEndpoint = "https://query1.finance.yahoo.com/v7/finance/quote"

// -----------------------------------------------------------------------------

type QuoteSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewQuoteSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *QuoteSource {
	return &QuoteSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger("YahooQuoteSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *QuoteSource) Name() string {
	return "yahoo-finance"
}

// -----------------------------------------------------------------------------

// FetchQuotes returns one entry per input symbol in input order. Per-symbol
// failures become error-tagged quotes; partial success is the expected steady
// state, so the batch itself never errors.
func (s *QuoteSource) FetchQuotes(ctx context.Context, symbols []string) ([]models.MQuote, error) {
	results := make([]models.MQuote, len(symbols))
	if len(symbols) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.Config.Network.ConcurrentRequests)

	for i, symbol := range symbols {
		wg.Add(1)
		go func(idx int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Small stagger to avoid tripping the rate limiter
			time.Sleep(10 * time.Millisecond)

			quote, err := s.fetchQuote(ctx, sym)
			if err != nil {
				s.Logger.Warning("Error fetching data for %s: %v", sym, err)
				results[idx] = models.ErrorQuote(sym, fmt.Sprintf("Failed to fetch data: %v", err))
				return
			}
			results[idx] = quote
		}(i, symbol)
	}

	wg.Wait()

	ok := 0
	for _, q := range results {
		if !q.Error {
			ok++
		}
	}
	s.Logger.Info("Fetched %d/%d symbols successfully", ok, len(symbols))

	return results, nil
}

// -----------------------------------------------------------------------------

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			LongName                   string  `json:"longName"`
			ShortName                  string  `json:"shortName"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChange        float64 `json:"regularMarketChange"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
			RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
			RegularMarketVolume        int64   `json:"regularMarketVolume"`
			MarketCap                  float64 `json:"marketCap"`
			FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
			FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// -----------------------------------------------------------------------------

func (s *QuoteSource) fetchQuote(ctx context.Context, symbol string) (models.MQuote, error) {
	body, err := s.Network.Get(ctx, quoteEndpoint, map[string]string{"symbols": symbol})
	if err != nil {
		return models.MQuote{}, err
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.MQuote{}, fmt.Errorf("parse response for %s: %w", symbol, err)
	}

	if parsed.QuoteResponse.Error != nil {
		return models.MQuote{}, fmt.Errorf("%s: %s", parsed.QuoteResponse.Error.Code, parsed.QuoteResponse.Error.Description)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return models.MQuote{}, fmt.Errorf("no quote data for %s", symbol)
	}

	r := parsed.QuoteResponse.Result[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}
	if name == "" {
		name = symbol
	}

	return models.MQuote{
		Symbol:           symbol,
		Name:             name,
		Price:            r.RegularMarketPrice,
		Change:           r.RegularMarketChange,
		ChangePercent:    r.RegularMarketChangePercent,
		PreviousClose:    r.RegularMarketPreviousClose,
		DayHigh:          r.RegularMarketDayHigh,
		DayLow:           r.RegularMarketDayLow,
		Volume:           r.RegularMarketVolume,
		MarketCap:        r.MarketCap,
		FiftyTwoWeekHigh: r.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  r.FiftyTwoWeekLow,
	}, nil
}
