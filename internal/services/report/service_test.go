package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

type stubAssets struct{ assets []*models.Asset }

func (s *stubAssets) Get(context.Context, string) (*models.Asset, error) {
	return nil, errors.New("not implemented")
}
func (s *stubAssets) GetByName(context.Context, string, string) (*models.Asset, error) {
	return nil, errors.New("not implemented")
}
func (s *stubAssets) ListByUser(context.Context, string) ([]*models.Asset, error) {
	return s.assets, nil
}
func (s *stubAssets) ListActive(context.Context, string) ([]*models.Asset, error) {
	var out []*models.Asset
	for _, a := range s.assets {
		if a.Active() {
			out = append(out, a)
		}
	}
	return out, nil
}
func (s *stubAssets) Save(context.Context, *models.Asset) error { return nil }
func (s *stubAssets) Delete(context.Context, string) error      { return nil }

type stubStorage struct{ assets *stubAssets }

func (s *stubStorage) Users() interfaces.UserStore               { return nil }
func (s *stubStorage) Assets() interfaces.AssetStore             { return s.assets }
func (s *stubStorage) Transactions() interfaces.TransactionStore { return nil }
func (s *stubStorage) Catalog() interfaces.CatalogStore          { return nil }
func (s *stubStorage) Close() error                              { return nil }

type stubRates struct{ table models.RateTable }

func (s *stubRates) Rates() models.RateTable { return s.table }
func (s *stubRates) Reload() error           { return nil }

type stubValuation struct {
	nw  *interfaces.NetWorth
	err error
}

func (s *stubValuation) NetWorth(context.Context, *models.User) (*interfaces.NetWorth, error) {
	return s.nw, s.err
}
func (s *stubValuation) RenderAllocationChart(context.Context, *models.User) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type stubInsight struct {
	gotPrompt string
	reply     string
	err       error
}

func (s *stubInsight) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.reply, s.err
}

func testUser() *models.User {
	return &models.User{ID: "u1", Email: "kate@example.com", FirstName: "Kate", LastName: "Ng", BaseCurrency: "USD", LiquidEquity: 5000}
}

func testAssets() []*models.Asset {
	return []*models.Asset{
		{Name: "Gold", Type: models.AssetTypeCommodity, Symbol: "GOLD", Quantity: 10, CurrentValue: 1000, Currency: "USD"},
		{Name: "Euro Fund", Type: models.AssetTypeStock, Quantity: 5, CurrentValue: 92, Currency: "EUR"},
		{Name: "Sold Out", Type: models.AssetTypeStock, Quantity: 0, CurrentValue: 500, Currency: "USD"},
	}
}

func newTestReportService(insight interfaces.InsightClient, val interfaces.ValuationService) *Service {
	storage := &stubStorage{assets: &stubAssets{assets: testAssets()}}
	rates := &stubRates{table: models.RateTable{"USD": 1.0, "EUR": 0.92}}
	return NewService(storage, val, rates, insight, common.NewSilentLogger())
}

func TestExportCSV(t *testing.T) {
	svc := newTestReportService(nil, nil)

	out, err := svc.ExportCSV(context.Background(), testUser())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)

	// header + 2 active assets + total; the zero-quantity asset is excluded
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Type", "Symbol", "Quantity", "Currency", "Value", "Value (USD)"}, rows[0])
	assert.Equal(t, "Gold", rows[1][0])
	assert.Equal(t, "1000.00", rows[1][5])
	assert.Equal(t, "1000.00", rows[1][6])
	assert.Equal(t, "Euro Fund", rows[2][0])
	assert.Equal(t, "92.00", rows[2][5])
	assert.Equal(t, "100.00", rows[2][6], "92 EUR at 0.92 converts to 100 USD")
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "1100.00", rows[3][6])
}

func TestExportPDF(t *testing.T) {
	svc := newTestReportService(nil, nil)

	out, err := svc.ExportPDF(context.Background(), testUser())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output is a PDF document")
	assert.Greater(t, len(out), 1000)
}

func TestInsight(t *testing.T) {
	insight := &stubInsight{reply: "Your portfolio is heavily concentrated in gold."}
	val := &stubValuation{nw: &interfaces.NetWorth{
		Total:    1100,
		Currency: "USD",
		Breakdown: []interfaces.AllocationSlice{
			{Label: "Gold", Value: 1000},
			{Label: "Euro Fund", Value: 100},
		},
		AssetCount: 2,
	}}
	svc := newTestReportService(insight, val)

	text, err := svc.Insight(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, "Your portfolio is heavily concentrated in gold.", text)
	assert.Contains(t, insight.gotPrompt, "Gold: 1000.00 (90.9%)")
	assert.Contains(t, insight.gotPrompt, "Total net worth: 1100.00 USD")
}

func TestInsightNoBackend(t *testing.T) {
	svc := newTestReportService(nil, &stubValuation{nw: &interfaces.NetWorth{AssetCount: 1}})
	_, err := svc.Insight(context.Background(), testUser())
	assert.Error(t, err)
}

func TestInsightNoHoldings(t *testing.T) {
	svc := newTestReportService(&stubInsight{}, &stubValuation{nw: &interfaces.NetWorth{}})
	_, err := svc.Insight(context.Background(), testUser())
	assert.Error(t, err)
}

func TestInsightBackendFailure(t *testing.T) {
	insight := &stubInsight{err: fmt.Errorf("quota exceeded")}
	val := &stubValuation{nw: &interfaces.NetWorth{Total: 100, AssetCount: 1, Breakdown: []interfaces.AllocationSlice{{Label: "Gold", Value: 100}}}}
	svc := newTestReportService(insight, val)

	_, err := svc.Insight(context.Background(), testUser())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded"))
}
