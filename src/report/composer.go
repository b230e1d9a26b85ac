package report

import (
	"time"

	"stock-digest/src/models"
)

// -----------------------------------------------------------------------------

// Summarize computes market stats over the non-error quotes. Ties on
// change-percent keep the first quote seen.
func Summarize(quotes []models.MQuote) models.MMarketSummary {
	summary := models.MMarketSummary{}

	for i := range quotes {
		q := quotes[i]
		if q.Error {
			continue
		}
		summary.Tracked++

		switch {
		case q.Change > 0:
			summary.Gainers++
		case q.Change < 0:
			summary.Losers++
		default:
			summary.Unchanged++
		}

		if summary.BiggestGainer == nil || q.ChangePercent > summary.BiggestGainer.ChangePercent {
			tmp := q
			summary.BiggestGainer = &tmp
		}
		if summary.BiggestLoser == nil || q.ChangePercent < summary.BiggestLoser.ChangePercent {
			tmp := q
			summary.BiggestLoser = &tmp
		}
	}

	return summary
}

// -----------------------------------------------------------------------------

// Compose merges quotes and articles into the renderable report document.
func Compose(quotes []models.MQuote, articles []models.MNewsArticle) models.MReport {
	return models.MReport{
		GeneratedAt: time.Now().UTC(),
		Quotes:      quotes,
		Articles:    articles,
		Summary:     Summarize(quotes),
	}
}

// -----------------------------------------------------------------------------

// Subject builds the email subject line for a report date.
func Subject(t time.Time) string {
	return "Stock Report - " + t.Format("Jan 2, 2006")
}
