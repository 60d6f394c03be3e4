package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

type AssetStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAssetStore(db *surrealdb.DB, logger *common.Logger) *AssetStore {
	return &AssetStore{
		db:     db,
		logger: logger,
	}
}

type assetRow struct {
	AssetID      string    `json:"asset_id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"asset_type"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Quantity     float64   `json:"quantity"`
	CurrentValue float64   `json:"current_value"`
	Currency     string    `json:"currency"`
	PurchaseDate string    `json:"purchase_date"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func assetToRow(a *models.Asset) *assetRow {
	return &assetRow{
		AssetID:      a.ID,
		UserID:       a.UserID,
		Type:         a.Type,
		Name:         a.Name,
		Symbol:       a.Symbol,
		Quantity:     a.Quantity,
		CurrentValue: a.CurrentValue,
		Currency:     a.Currency,
		PurchaseDate: a.PurchaseDate,
		Color:        a.Color,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func rowToAsset(r *assetRow) *models.Asset {
	return &models.Asset{
		ID:           r.AssetID,
		UserID:       r.UserID,
		Type:         r.Type,
		Name:         r.Name,
		Symbol:       r.Symbol,
		Quantity:     r.Quantity,
		CurrentValue: r.CurrentValue,
		Currency:     r.Currency,
		PurchaseDate: r.PurchaseDate,
		Color:        r.Color,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (s *AssetStore) Get(ctx context.Context, assetID string) (*models.Asset, error) {
	row, err := surrealdb.Select[assetRow](ctx, s.db, surrealmodels.NewRecordID("asset", assetID))
	if err != nil {
		return nil, fmt.Errorf("failed to select asset: %w", err)
	}
	if row == nil || row.AssetID == "" {
		return nil, fmt.Errorf("asset not found: %s", assetID)
	}
	return rowToAsset(row), nil
}

func (s *AssetStore) GetByName(ctx context.Context, userID, name string) (*models.Asset, error) {
	sql := "SELECT * FROM asset WHERE user_id = $user_id AND name = $name LIMIT 1"
	vars := map[string]any{"user_id": userID, "name": name}

	results, err := surrealdb.Query[[]assetRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset by name: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return rowToAsset(&(*results)[0].Result[0]), nil
	}
	return nil, fmt.Errorf("asset not found: %s", name)
}

func (s *AssetStore) ListByUser(ctx context.Context, userID string) ([]*models.Asset, error) {
	return s.list(ctx, "SELECT * FROM asset WHERE user_id = $user_id ORDER BY name ASC", userID)
}

func (s *AssetStore) ListActive(ctx context.Context, userID string) ([]*models.Asset, error) {
	return s.list(ctx, "SELECT * FROM asset WHERE user_id = $user_id AND quantity > 0 ORDER BY name ASC", userID)
}

func (s *AssetStore) list(ctx context.Context, sql, userID string) ([]*models.Asset, error) {
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]assetRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var assets []*models.Asset
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			assets = append(assets, rowToAsset(&(*results)[0].Result[i]))
		}
	}
	return assets, nil
}

func (s *AssetStore) Save(ctx context.Context, asset *models.Asset) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("asset", asset.ID),
		"record": assetToRow(asset),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]assetRow](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save asset after retries: %w", lastErr)
}

func (s *AssetStore) Delete(ctx context.Context, assetID string) error {
	_, err := surrealdb.Delete[assetRow](ctx, s.db, surrealmodels.NewRecordID("asset", assetID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.AssetStore = (*AssetStore)(nil)
