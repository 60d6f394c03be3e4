package models

import "time"

// CatalogAsset is an entry in the master list of tradable instruments
// (stocks, forex pairs, commodities). The catalog caches symbol metadata
// from the market-data providers; per-user Assets are created from catalog
// entries the first time a transaction references one.
type CatalogAsset struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Type          string    `json:"asset_type"`
	Currency      string    `json:"currency"`
	Meta          string    `json:"meta,omitempty"` // provider-specific fields, JSON blob
	LastRefreshed time.Time `json:"last_refreshed"`
}
