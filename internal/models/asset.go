package models

import "time"

// Asset type tags. The set is open; these are the well-known values used for
// chart coloring and provider symbol mapping; anything else is treated as Other.
const (
	AssetTypeStock      = "Stock"
	AssetTypeCommodity  = "Commodity"
	AssetTypeRealEstate = "Real Estate"
	AssetTypeForex      = "Forex"
	AssetTypeOther      = "Other"
)

// Asset represents a user's holding of some instrument. Quantity and
// CurrentValue never go below zero; the ledger engine clamps on apply.
type Asset struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"asset_type"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol,omitempty"`
	Quantity     float64   `json:"quantity"`
	CurrentValue float64   `json:"current_value"`
	Currency     string    `json:"currency"`
	PurchaseDate string    `json:"purchase_date,omitempty"`
	Color        string    `json:"color,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Active reports whether the asset still represents an open position.
// Fully sold-down assets are kept for transaction history but excluded
// from net-worth totals.
func (a *Asset) Active() bool {
	return a.Quantity > 0
}
