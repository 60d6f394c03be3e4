package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

func TestNetWorth(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	h.storage.assets.assets["a2"] = &models.Asset{
		ID: "a2", UserID: "u1", Name: "Flat", Type: models.AssetTypeRealEstate,
		Quantity: 1, CurrentValue: 92, Currency: "EUR",
	}

	rec := h.do(t, http.MethodGet, "/api/networth", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var nw interfaces.NetWorth
	decodeBody(t, rec, &nw)
	assert.Equal(t, "USD", nw.Currency)
	assert.Equal(t, 2, nw.AssetCount)
	// 1000 USD gold plus 92 EUR at 0.92 EUR/USD.
	assert.InDelta(t, 1100.0, nw.Total, 0.001)
	require.Len(t, nw.Breakdown, 2)
	assert.Equal(t, "Gold", nw.Breakdown[0].Label)
}

func TestNetWorthChartIsPNG(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	rec := h.do(t, http.MethodGet, "/api/networth/chart", token, nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestNetWorthInsight(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)
	h.insight.reply = "heavily concentrated in gold"

	rec := h.do(t, http.MethodGet, "/api/networth/insight", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var result struct {
		Insight string `json:"insight"`
	}
	decodeBody(t, rec, &result)
	assert.Equal(t, "heavily concentrated in gold", result.Insight)
}

func TestExportCSV(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	rec := h.do(t, http.MethodGet, "/api/export/csv", token, nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "wealthfolio-")
	assert.Contains(t, rec.Body.String(), "Gold")
	assert.Contains(t, rec.Body.String(), "Total")
}

func TestExportPDF(t *testing.T) {
	h := newHarness(t)
	token := seedPortfolio(t, h)

	rec := h.do(t, http.MethodGet, "/api/export/pdf", token, nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestNetWorthRequiresAuth(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{
		"/api/networth",
		"/api/networth/chart",
		"/api/networth/insight",
		"/api/export/csv",
		"/api/export/pdf",
	} {
		rec := h.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}
