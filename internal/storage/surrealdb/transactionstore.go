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

type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

type transactionRow struct {
	TxID     string    `json:"tx_id"`
	UserID   string    `json:"user_id"`
	AssetID  string    `json:"asset_id"`
	Type     string    `json:"tx_type"`
	Quantity float64   `json:"quantity"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note"`
}

func txToRow(tx *models.Transaction) *transactionRow {
	return &transactionRow{
		TxID:     tx.ID,
		UserID:   tx.UserID,
		AssetID:  tx.AssetID,
		Type:     string(tx.Type),
		Quantity: tx.Quantity,
		Amount:   tx.Amount,
		Date:     tx.Date,
		Note:     tx.Note,
	}
}

func rowToTx(r *transactionRow) *models.Transaction {
	return &models.Transaction{
		ID:       r.TxID,
		UserID:   r.UserID,
		AssetID:  r.AssetID,
		Type:     models.TransactionType(r.Type),
		Quantity: r.Quantity,
		Amount:   r.Amount,
		Date:     r.Date,
		Note:     r.Note,
	}
}

func (s *TransactionStore) Get(ctx context.Context, txID string) (*models.Transaction, error) {
	row, err := surrealdb.Select[transactionRow](ctx, s.db, surrealmodels.NewRecordID("transaction", txID))
	if err != nil {
		return nil, fmt.Errorf("failed to select transaction: %w", err)
	}
	if row == nil || row.TxID == "" {
		return nil, fmt.Errorf("transaction not found: %s", txID)
	}
	return rowToTx(row), nil
}

// ListByUser returns the user's transactions, newest first. Filtering happens
// in the query where SurrealDB can express it (type, asset, date range); the
// note substring match runs over the result.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	sql := "SELECT * FROM transaction WHERE user_id = $user_id"
	vars := map[string]any{"user_id": userID}

	if filter.Type != "" {
		sql += " AND tx_type = $tx_type"
		vars["tx_type"] = string(filter.Type)
	}
	if filter.AssetID != "" {
		sql += " AND asset_id = $asset_id"
		vars["asset_id"] = filter.AssetID
	}
	if !filter.From.IsZero() {
		sql += " AND date >= $from"
		vars["from"] = filter.From
	}
	if !filter.To.IsZero() {
		sql += " AND date < $to"
		vars["to"] = filter.To
	}
	sql += " ORDER BY date DESC"

	results, err := surrealdb.Query[[]transactionRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var txs []*models.Transaction
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			tx := rowToTx(&(*results)[0].Result[i])
			if filter.Matches(tx) {
				txs = append(txs, tx)
			}
		}
	}
	return txs, nil
}

func (s *TransactionStore) Save(ctx context.Context, tx *models.Transaction) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("transaction", tx.ID),
		"record": txToRow(tx),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]transactionRow](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save transaction after retries: %w", lastErr)
}

func (s *TransactionStore) Delete(ctx context.Context, txID string) error {
	_, err := surrealdb.Delete[transactionRow](ctx, s.db, surrealmodels.NewRecordID("transaction", txID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	sql := "DELETE transaction WHERE asset_id = $asset_id RETURN BEFORE"
	vars := map[string]any{"asset_id": assetID}

	results, err := surrealdb.Query[[]transactionRow](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions by asset: %w", err)
	}

	count := 0
	if results != nil && len(*results) > 0 {
		count = len((*results)[0].Result)
	}
	return count, nil
}

// Compile-time check
var _ interfaces.TransactionStore = (*TransactionStore)(nil)
