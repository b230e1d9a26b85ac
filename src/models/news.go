package models

import "time"

// MNewsArticle is one news item related to a tracked symbol.
type MNewsArticle struct {
	Symbol      string    `json:"symbol"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Image       string    `json:"image,omitempty"`
}
