package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stock-digest/src/helpers"
	"stock-digest/src/interfaces"
	"stock-digest/src/logger"
	"stock-digest/src/models"
)

const newsEndpoint = "https://finnhub.io/api/v1/company-news"

// -----------------------------------------------------------------------------

type NewsSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger

	// now is swappable for deterministic window tests
	now func() time.Time
}

// -----------------------------------------------------------------------------

func NewNewsSource(cfg *models.MConfig, netMgr interfaces.INetworkManager) *NewsSource {
	return &NewsSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  logger.NewLogger("FinnhubNewsSource"),
		now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

func (s *NewsSource) Name() string {
	return "finnhub"
}

// -----------------------------------------------------------------------------

type finnhubArticle struct {
	Datetime int64  `json:"datetime"` // Unix seconds
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// -----------------------------------------------------------------------------

// FetchNews fetches per-symbol company news over the trailing window.
// Symbols are fetched sequentially; watchlists are small and the API is
// rate limited. A failing symbol is logged and skipped. The aggregate is
// capped per symbol, sorted by published timestamp descending, then capped
// globally.
func (s *NewsSource) FetchNews(ctx context.Context, symbols []string, windowDays int) ([]models.MNewsArticle, error) {
	if windowDays <= 0 {
		windowDays = s.Config.News.WindowDays
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -windowDays)

	var all []models.MNewsArticle
	for _, symbol := range symbols {
		articles, err := s.fetchSymbolNews(ctx, symbol, from, to)
		if err != nil {
			s.Logger.Warning("Error fetching news for %s: %v", symbol, err)
			continue
		}
		all = append(all, articles...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	if limit := s.Config.News.TotalLimit; len(all) > limit {
		all = all[:limit]
	}

	s.Logger.Info("Fetched %d news articles for %d symbols", len(all), len(symbols))
	return all, nil
}

// -----------------------------------------------------------------------------

func (s *NewsSource) fetchSymbolNews(ctx context.Context, symbol string, from, to time.Time) ([]models.MNewsArticle, error) {
	body, err := s.Network.Get(ctx, newsEndpoint, map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"token":  s.Config.News.APIKey,
	})
	if err != nil {
		return nil, helpers.NewProviderError(s.Name(), symbol, err)
	}

	var raw []finnhubArticle
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse news for %s: %w", symbol, err)
	}

	if limit := s.Config.News.PerSymbolLimit; len(raw) > limit {
		raw = raw[:limit]
	}

	articles := make([]models.MNewsArticle, 0, len(raw))
	for _, a := range raw {
		articles = append(articles, models.MNewsArticle{
			Symbol:      symbol,
			Title:       a.Headline,
			Description: a.Summary,
			URL:         a.URL,
			Source:      a.Source,
			PublishedAt: time.Unix(a.Datetime, 0).UTC(),
			Image:       a.Image,
		})
	}
	return articles, nil
}
