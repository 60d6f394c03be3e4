package interfaces

import "context"

// PriceClient fetches a current market price for a symbol from one provider.
// Implementations map symbols to their provider's format internally.
type PriceClient interface {
	// LatestPrice returns the most recent price for the symbol, or an error
	// when the provider cannot supply one.
	LatestPrice(ctx context.Context, symbol, assetType string) (float64, error)
}

// InsightClient generates short natural-language commentary.
type InsightClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
