// Package interfaces defines service contracts for Wealthfolio
package interfaces

import (
	"context"

	"github.com/yogibear102/wealthfolio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	Users() UserStore
	Assets() AssetStore
	Transactions() TransactionStore
	Catalog() CatalogStore

	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
}

// AssetStore manages per-user holdings.
type AssetStore interface {
	Get(ctx context.Context, assetID string) (*models.Asset, error)
	GetByName(ctx context.Context, userID, name string) (*models.Asset, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Asset, error)
	// ListActive returns only assets with quantity > 0.
	ListActive(ctx context.Context, userID string) ([]*models.Asset, error)
	Save(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, assetID string) error
}

// TransactionStore manages transaction records.
type TransactionStore interface {
	Get(ctx context.Context, txID string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error)
	Save(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, txID string) error
	// DeleteByAsset removes all transactions referencing the asset and
	// returns the number deleted. Used by the asset-delete cascade.
	DeleteByAsset(ctx context.Context, assetID string) (int, error)
}

// CatalogStore manages the master list of tradable instruments.
type CatalogStore interface {
	GetBySymbol(ctx context.Context, symbol string) (*models.CatalogAsset, error)
	// Search matches query against symbol and name (case-insensitive
	// substring); typ filters by asset type when non-empty.
	Search(ctx context.Context, query, typ string, limit int) ([]*models.CatalogAsset, error)
	Save(ctx context.Context, entry *models.CatalogAsset) error
}
