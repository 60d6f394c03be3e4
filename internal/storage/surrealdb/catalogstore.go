package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

const defaultSearchLimit = 25

type CatalogStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewCatalogStore(db *surrealdb.DB, logger *common.Logger) *CatalogStore {
	return &CatalogStore{
		db:     db,
		logger: logger,
	}
}

type catalogRow struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Type          string    `json:"asset_type"`
	Currency      string    `json:"currency"`
	Meta          string    `json:"meta"`
	LastRefreshed time.Time `json:"last_refreshed"`
}

func catalogToRow(e *models.CatalogAsset) *catalogRow {
	return &catalogRow{
		Symbol:        e.Symbol,
		Name:          e.Name,
		Type:          e.Type,
		Currency:      e.Currency,
		Meta:          e.Meta,
		LastRefreshed: e.LastRefreshed,
	}
}

func rowToCatalog(r *catalogRow) *models.CatalogAsset {
	return &models.CatalogAsset{
		Symbol:        r.Symbol,
		Name:          r.Name,
		Type:          r.Type,
		Currency:      r.Currency,
		Meta:          r.Meta,
		LastRefreshed: r.LastRefreshed,
	}
}

func symbolToID(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *CatalogStore) GetBySymbol(ctx context.Context, symbol string) (*models.CatalogAsset, error) {
	row, err := surrealdb.Select[catalogRow](ctx, s.db, surrealmodels.NewRecordID("catalog", symbolToID(symbol)))
	if err != nil {
		return nil, fmt.Errorf("failed to select catalog entry: %w", err)
	}
	if row == nil || row.Symbol == "" {
		return nil, fmt.Errorf("catalog entry not found: %s", symbol)
	}
	return rowToCatalog(row), nil
}

func (s *CatalogStore) Search(ctx context.Context, query, typ string, limit int) ([]*models.CatalogAsset, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}

	sql := "SELECT * FROM catalog"
	vars := map[string]any{}
	var conds []string

	if query != "" {
		conds = append(conds, "(string::lowercase(symbol) CONTAINS $q OR string::lowercase(name) CONTAINS $q)")
		vars["q"] = strings.ToLower(query)
	}
	if typ != "" {
		conds = append(conds, "asset_type = $type")
		vars["type"] = typ
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY symbol ASC LIMIT %d", limit)

	results, err := surrealdb.Query[[]catalogRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	var entries []*models.CatalogAsset
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			entries = append(entries, rowToCatalog(&(*results)[0].Result[i]))
		}
	}
	return entries, nil
}

func (s *CatalogStore) Save(ctx context.Context, entry *models.CatalogAsset) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("catalog", symbolToID(entry.Symbol)),
		"record": catalogToRow(entry),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]catalogRow](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save catalog entry after retries: %w", lastErr)
}

// Compile-time check
var _ interfaces.CatalogStore = (*CatalogStore)(nil)
