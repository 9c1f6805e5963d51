package models

import (
	"time"
)

// Mover is a card with a large recent price change.
type Mover struct {
	Name          string  `json:"name"`
	Set           string  `json:"set"`
	PercentChange float64 `json:"percent_change"`
}

// TrendingCard is a card with high recent search volume.
type TrendingCard struct {
	Name          string  `json:"name"`
	Set           string  `json:"set"`
	PercentChange float64 `json:"percent_change"`
	SearchVolume  int     `json:"search_volume"`
}

// MarketSnapshot is ephemeral demo market data, regenerated wholesale
// on a timer or on demand. It shares card-name vocabulary with the
// vault but has no other relationship to it.
type MarketSnapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Movers      []Mover        `json:"movers"`
	Trending    []TrendingCard `json:"trending"`
	Insights    []string       `json:"insights"`
}
