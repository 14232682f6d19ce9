package domain

import "time"

// DefaultSeriesNumericas applies while no configuration row exists.
const DefaultSeriesNumericas = 1

type CampaignConfig struct {
	SeriesNumericas int       `json:"series_numericas"`
	MaxNumber       int       `json:"max_number"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
	// Default is true when no row is stored and the fallback is in use.
	Default bool `json:"default"`
}

type CampaignStats struct {
	SeriesNumericas int     `json:"series_numericas"`
	MaxNumber       int     `json:"max_number"`
	Issued          int64   `json:"issued"`
	Free            int64   `json:"free"`
	UsageRatio      float64 `json:"usage_ratio"`
	Participants    int64   `json:"participants"`
}
