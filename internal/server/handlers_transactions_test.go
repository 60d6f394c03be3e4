package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogibear102/wealthfolio/internal/models"
)

func seedPortfolio(t *testing.T, h *harness) string {
	t.Helper()

	token := h.seedUser(t, &models.User{
		ID:            "u1",
		Email:         "alice@example.com",
		BaseCurrency:  "USD",
		LiquidEquity:  10000,
		MonthlyIncome: 3000,
	})
	h.storage.assets.assets["a1"] = &models.Asset{
		ID:           "a1",
		UserID:       "u1",
		Name:         "Gold",
		Symbol:       "GOLD",
		Type:         models.AssetTypeCommodity,
		Quantity:     10,
		CurrentValue: 1000,
		Currency:     "USD",
	}
	return token
}

func TestTransactionCreateManualAmount(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	rec := h.do(t, http.MethodPost, "/api/transactions", token, map[string]any{
		"asset_id": "a1",
		"tx_type":  "buy",
		"quantity": 2.0,
		"amount":   500.0,
		"date":     "2025-03-01",
		"note":     "coins",
	})
	requireStatus(t, rec, http.StatusCreated)

	var tx models.Transaction
	decodeBody(t, rec, &tx)
	assert.Equal(t, models.TxBuy, tx.Type)
	assert.Equal(t, 500.0, tx.Amount)
	assert.Equal(t, "coins", tx.Note)

	asset := h.storage.assets.assets["a1"]
	assert.Equal(t, 1500.0, asset.CurrentValue)
	assert.Equal(t, 12.0, asset.Quantity)
	assert.Equal(t, 9500.0, h.storage.users.users["u1"].LiquidEquity)
}

func TestTransactionCreateMarketPriced(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)
	h.price.price = 150
	h.price.found = true

	rec := h.do(t, http.MethodPost, "/api/transactions", token, map[string]any{
		"asset_id": "a1",
		"tx_type":  "buy",
		"quantity": 3.0,
	})
	requireStatus(t, rec, http.StatusCreated)

	var tx models.Transaction
	decodeBody(t, rec, &tx)
	assert.Equal(t, 450.0, tx.Amount)
}

func TestTransactionCreateNoPriceIsUnprocessable(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)
	h.price.found = false

	rec := h.do(t, http.MethodPost, "/api/transactions", token, map[string]any{
		"asset_id": "a1",
		"tx_type":  "buy",
		"quantity": 3.0,
	})
	requireStatus(t, rec, http.StatusUnprocessableEntity)
	assert.Empty(t, h.storage.txs.txs)
}

func TestTransactionCreateInvalidType(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	rec := h.do(t, http.MethodPost, "/api/transactions", token, map[string]any{
		"asset_id": "a1",
		"tx_type":  "transfer",
		"amount":   100.0,
	})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestTransactionCreateRequiresAuth(t *testing.T) {
	h := newHarness(t)
	seedPortfolio(t, h)

	rec := h.do(t, http.MethodPost, "/api/transactions", "", map[string]any{
		"asset_id": "a1",
		"tx_type":  "buy",
		"amount":   100.0,
	})
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestTransactionListFilters(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	h.storage.txs.txs["t1"] = &models.Transaction{
		ID: "t1", UserID: "u1", AssetID: "a1", Type: models.TxBuy,
		Amount: 500, Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Note: "coins",
	}
	h.storage.txs.txs["t2"] = &models.Transaction{
		ID: "t2", UserID: "u1", AssetID: "a1", Type: models.TxSell,
		Amount: 200, Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Note: "rebalance",
	}
	h.storage.txs.txs["t3"] = &models.Transaction{
		ID: "t3", UserID: "other", AssetID: "ax", Type: models.TxBuy, Amount: 999,
	}

	var listing struct {
		Transactions []*models.Transaction `json:"transactions"`
		Count        int                   `json:"count"`
	}

	rec := h.do(t, http.MethodGet, "/api/transactions", token, nil)
	requireStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &listing)
	assert.Equal(t, 2, listing.Count)

	rec = h.do(t, http.MethodGet, "/api/transactions?type=sell", token, nil)
	requireStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &listing)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "t2", listing.Transactions[0].ID)

	rec = h.do(t, http.MethodGet, "/api/transactions?note=coin", token, nil)
	requireStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &listing)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "t1", listing.Transactions[0].ID)

	rec = h.do(t, http.MethodGet, "/api/transactions?from=2025-03-01&to=2025-05-01", token, nil)
	requireStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &listing)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "t2", listing.Transactions[0].ID)

	rec = h.do(t, http.MethodGet, "/api/transactions?type=transfer", token, nil)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestTransactionEditRevaluesAsset(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	h.storage.txs.txs["t1"] = &models.Transaction{
		ID: "t1", UserID: "u1", AssetID: "a1", Type: models.TxBuy, Amount: 500,
	}

	rec := h.do(t, http.MethodPut, "/api/transactions/t1", token, map[string]any{
		"asset_id": "a1",
		"tx_type":  "sell",
		"amount":   300.0,
	})
	requireStatus(t, rec, http.StatusOK)

	var tx models.Transaction
	decodeBody(t, rec, &tx)
	assert.Equal(t, models.TxSell, tx.Type)
	assert.Equal(t, 300.0, tx.Amount)
	assert.Equal(t, 200.0, h.storage.assets.assets["a1"].CurrentValue)
}

func TestTransactionEditForeignTransaction(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	h.storage.txs.txs["t1"] = &models.Transaction{
		ID: "t1", UserID: "someone-else", AssetID: "a1", Type: models.TxBuy, Amount: 500,
	}

	rec := h.do(t, http.MethodPut, "/api/transactions/t1", token, map[string]any{
		"asset_id": "a1",
		"tx_type":  "sell",
		"amount":   300.0,
	})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestEquityRefresh(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	rec := h.do(t, http.MethodPost, "/api/equity/refresh", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var result struct {
		LiquidEquity  float64 `json:"liquid_equity"`
		MonthlyIncome float64 `json:"monthly_income"`
	}
	decodeBody(t, rec, &result)
	assert.Equal(t, 13000.0, result.LiquidEquity)
	assert.Equal(t, 3000.0, result.MonthlyIncome)
}
