// Package report produces exportable views of a user's holdings: CSV and PDF
// statements plus AI-generated commentary.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

// Service renders reports over a user's holdings.
type Service struct {
	storage   interfaces.StorageManager
	valuation interfaces.ValuationService
	rates     interfaces.RatesProvider
	insight   interfaces.InsightClient
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a report service. insight may be nil when no AI backend
// is configured; Insight then returns an error.
func NewService(
	storage interfaces.StorageManager,
	valuation interfaces.ValuationService,
	rates interfaces.RatesProvider,
	insight interfaces.InsightClient,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:   storage,
		valuation: valuation,
		rates:     rates,
		insight:   insight,
		logger:    logger,
		now:       time.Now,
	}
}

// ExportCSV renders the user's active holdings as CSV: one row per asset
// with the value in both the asset's own currency and the user's base
// currency.
func (s *Service) ExportCSV(ctx context.Context, user *models.User) ([]byte, error) {
	assets, err := s.storage.Assets().ListActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	base := baseCurrency(user)
	table := s.rates.Rates()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Name", "Type", "Symbol", "Quantity", "Currency", "Value", "Value (" + base + ")"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	total := 0.0
	for _, a := range assets {
		converted := table.Convert(a.CurrentValue, a.Currency, base)
		total += converted
		row := []string{
			a.Name,
			a.Type,
			a.Symbol,
			formatFloat(a.Quantity),
			a.Currency,
			formatFloat(a.CurrentValue),
			formatFloat(converted),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
	}

	if err := w.Write([]string{"Total", "", "", "", base, "", formatFloat(total)}); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Int("assets", len(assets)).Msg("CSV export generated")
	return buf.Bytes(), nil
}

// Insight asks the AI backend for a short commentary on the user's current
// allocation.
func (s *Service) Insight(ctx context.Context, user *models.User) (string, error) {
	if s.insight == nil {
		return "", fmt.Errorf("no insight backend configured")
	}

	nw, err := s.valuation.NetWorth(ctx, user)
	if err != nil {
		return "", err
	}
	if nw.AssetCount == 0 {
		return "", fmt.Errorf("no active holdings to analyze")
	}

	text, err := s.insight.GenerateContent(ctx, buildInsightPrompt(user, nw))
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}
	return text, nil
}

func buildInsightPrompt(user *models.User, nw *interfaces.NetWorth) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a personal finance assistant. A user holds the following portfolio (all values in %s):\n\n", nw.Currency)
	for _, slice := range nw.Breakdown {
		pct := 0.0
		if nw.Total > 0 {
			pct = slice.Value / nw.Total * 100
		}
		fmt.Fprintf(&sb, "- %s: %.2f (%.1f%%)\n", slice.Label, slice.Value, pct)
	}
	fmt.Fprintf(&sb, "\nTotal net worth: %.2f %s. Liquid equity: %.2f.\n\n", nw.Total, nw.Currency, user.LiquidEquity)
	sb.WriteString("In 3 short paragraphs: summarize the allocation, note concentration or diversification issues, and suggest one concrete next step. Do not give specific buy/sell recommendations for individual securities.")
	return sb.String()
}

func baseCurrency(user *models.User) string {
	if user.BaseCurrency != "" {
		return user.BaseCurrency
	}
	return "USD"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
