// Package valuation aggregates a user's holdings into currency-converted
// net-worth figures and renders them for the dashboard.
package valuation

import (
	"context"
	"fmt"
	"sort"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

// Service computes net worth over active holdings using the current
// exchange-rate table.
type Service struct {
	storage interfaces.StorageManager
	rates   interfaces.RatesProvider
	logger  *common.Logger
}

// NewService creates a valuation service.
func NewService(storage interfaces.StorageManager, rates interfaces.RatesProvider, logger *common.Logger) *Service {
	return &Service{storage: storage, rates: rates, logger: logger}
}

// NetWorth aggregates the user's active holdings (quantity > 0) into the
// user's base currency. Fully sold-down assets contribute nothing.
func (s *Service) NetWorth(ctx context.Context, user *models.User) (*interfaces.NetWorth, error) {
	if user == nil {
		return nil, fmt.Errorf("user is required")
	}

	assets, err := s.storage.Assets().ListActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	base := user.BaseCurrency
	if base == "" {
		base = "USD"
	}

	result := Aggregate(assets, s.rates.Rates(), base)

	s.logger.Debug().
		Str("user_id", user.ID).
		Float64("total", result.Total).
		Int("assets", result.AssetCount).
		Msg("net worth computed")

	return result, nil
}

// Aggregate is the pure aggregation step: each asset's value is converted
// from its own currency into the base currency and summed. Assets with
// quantity 0 must already be filtered out by the caller; the function still
// guards against them so a stale listing cannot inflate the total.
func Aggregate(assets []*models.Asset, rates models.RateTable, baseCurrency string) *interfaces.NetWorth {
	result := &interfaces.NetWorth{
		Currency:  baseCurrency,
		Breakdown: []interfaces.AllocationSlice{},
	}

	for _, a := range assets {
		if !a.Active() {
			continue
		}
		converted := rates.Convert(a.CurrentValue, a.Currency, baseCurrency)
		color := a.Color
		if color == "" {
			color = models.ColorFor(a.Name, a.Type)
		}
		result.Breakdown = append(result.Breakdown, interfaces.AllocationSlice{
			Label: a.Name,
			Value: converted,
			Color: color,
		})
		result.Total += converted
		result.AssetCount++
	}

	// Largest holdings first, for stable dashboard and chart ordering.
	sort.Slice(result.Breakdown, func(i, j int) bool {
		if result.Breakdown[i].Value != result.Breakdown[j].Value {
			return result.Breakdown[i].Value > result.Breakdown[j].Value
		}
		return result.Breakdown[i].Label < result.Breakdown[j].Label
	})

	return result
}

// RenderAllocationChart renders the user's net-worth breakdown as a PNG
// pie chart.
func (s *Service) RenderAllocationChart(ctx context.Context, user *models.User) ([]byte, error) {
	nw, err := s.NetWorth(ctx, user)
	if err != nil {
		return nil, err
	}
	return RenderAllocationPie(nw)
}
