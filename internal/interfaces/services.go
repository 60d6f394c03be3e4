package interfaces

import (
	"context"
	"time"

	"github.com/yogibear102/wealthfolio/internal/models"
)

// RecordRequest describes a new transaction to record.
// Exactly one of AssetID or CatalogSymbol selects the holding: AssetID points
// at an existing per-user asset, CatalogSymbol at a master-catalog entry (the
// per-user asset is created on first use).
type RecordRequest struct {
	AssetID       string
	CatalogSymbol string
	Type          string // raw type string, canonicalized by the service
	Quantity      float64
	// Amount is the total value moved. When AmountProvided is false the
	// service prices the transaction from the market (quantity × latest price).
	Amount         float64
	AmountProvided bool
	Date           time.Time
	Note           string
}

// EditRequest describes an edit to an existing transaction.
type EditRequest struct {
	AssetID string
	Type    string
	Amount  float64
	Note    *string    // nil leaves the note unchanged
	Date    *time.Time // nil leaves the date unchanged
}

// SellRequest describes selling down a position by unit count.
type SellRequest struct {
	Quantity  float64 // units to sell
	UnitPrice float64 // price per unit
	Date      time.Time
	Note      string
}

// LedgerService records, edits, and reverses transactions against assets.
type LedgerService interface {
	Record(ctx context.Context, userID string, req RecordRequest) (*models.Transaction, error)
	Edit(ctx context.Context, userID, txID string, req EditRequest) (*models.Transaction, error)
	SellPosition(ctx context.Context, userID, assetID string, req SellRequest) (*models.Transaction, error)
	DeleteAsset(ctx context.Context, userID, assetID string) (int, error)
	RefreshEquity(ctx context.Context, userID string) (*models.User, error)
}

// NetWorth is the aggregated, currency-converted dashboard view.
type NetWorth struct {
	Total      float64           `json:"total"`
	Currency   string            `json:"currency"`
	Breakdown  []AllocationSlice `json:"breakdown"`
	AssetCount int               `json:"asset_count"`
}

// AllocationSlice is one entry of the net-worth breakdown, keyed by asset
// display name and individually converted to the base currency.
type AllocationSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ValuationService aggregates holdings into base-currency totals.
type ValuationService interface {
	// NetWorth aggregates the user's active holdings (quantity > 0).
	NetWorth(ctx context.Context, user *models.User) (*NetWorth, error)
	// RenderAllocationChart renders the breakdown as a PNG pie chart.
	RenderAllocationChart(ctx context.Context, user *models.User) ([]byte, error)
}

// PriceService looks up current market prices with caching and provider
// fallback. A false return means no price is available; it never fails loudly.
type PriceService interface {
	LatestPrice(ctx context.Context, symbol, assetType string) (float64, bool)
}

// RatesProvider supplies the current exchange-rate table.
type RatesProvider interface {
	Rates() models.RateTable
	Reload() error
}

// ReportService produces exportable reports over a user's holdings.
type ReportService interface {
	ExportCSV(ctx context.Context, user *models.User) ([]byte, error)
	ExportPDF(ctx context.Context, user *models.User) ([]byte, error)
	Insight(ctx context.Context, user *models.User) (string, error)
}
