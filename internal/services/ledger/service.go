// Package ledger implements the transaction engine: the pure effect rules
// and the service that applies them against stored users, assets, and
// transactions.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

// ErrPriceUnavailable signals that a transaction could not be priced from
// market data and needs a manual amount.
var ErrPriceUnavailable = fmt.Errorf("price unavailable")

// Service coordinates transaction recording and editing against storage.
type Service struct {
	storage interfaces.StorageManager
	price   interfaces.PriceService
	logger  *common.Logger
	now     func() time.Time
}

// NewService creates a ledger service.
func NewService(storage interfaces.StorageManager, price interfaces.PriceService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		price:   price,
		logger:  logger,
		now:     time.Now,
	}
}

// Record validates, prices, and applies a new transaction. The asset is
// resolved from req.AssetID, or created on first use from a catalog entry
// when req.CatalogSymbol is set. Buys require sufficient liquid equity and
// deduct it; sells credit the proceeds back.
func (s *Service) Record(ctx context.Context, userID string, req interfaces.RecordRequest) (*models.Transaction, error) {
	txType, ok := models.CanonicalTransactionType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported transaction type %q", ErrInvalidArgument, req.Type)
	}

	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	asset, err := s.resolveAsset(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	if !req.AmountProvided {
		price, found := s.price.LatestPrice(ctx, asset.Symbol, asset.Type)
		if !found {
			return nil, fmt.Errorf("%w: no market price for %q, amount must be entered manually", ErrPriceUnavailable, asset.Symbol)
		}
		amount = req.Quantity * price
	}

	if txType == models.TxBuy && user.LiquidEquity < amount {
		return nil, fmt.Errorf("%w: insufficient liquid equity (%.2f available, %.2f required)",
			ErrInvalidArgument, user.LiquidEquity, amount)
	}

	if _, err := ApplyEffect(asset, string(txType), amount, req.Quantity, false); err != nil {
		return nil, err
	}

	switch txType {
	case models.TxBuy:
		user.LiquidEquity -= amount
	case models.TxSell:
		user.LiquidEquity += amount
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	tx := &models.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		AssetID:  asset.ID,
		Type:     txType,
		Quantity: req.Quantity,
		Amount:   amount,
		Date:     date,
		Note:     req.Note,
	}

	asset.UpdatedAt = s.now()
	if err := s.storage.Assets().Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}
	if err := s.storage.Transactions().Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}
	if txType == models.TxBuy || txType == models.TxSell {
		if err := s.storage.Users().Save(ctx, user); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("asset", asset.Name).
		Str("type", string(txType)).
		Float64("amount", amount).
		Msg("transaction recorded")

	return tx, nil
}

// Edit rewrites an existing transaction: the old effect is reversed, the
// record is updated, and the new effect applied, with compensation when the
// second application fails.
func (s *Service) Edit(ctx context.Context, userID, txID string, req interfaces.EditRequest) (*models.Transaction, error) {
	newType, ok := models.CanonicalTransactionType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported transaction type %q", ErrInvalidArgument, req.Type)
	}

	tx, err := s.storage.Transactions().Get(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	if tx.UserID != userID {
		return nil, fmt.Errorf("%w: transaction does not belong to user", ErrInvalidArgument)
	}

	oldAsset, err := s.storage.Assets().Get(ctx, tx.AssetID)
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}
	newAsset := oldAsset
	if req.AssetID != "" && req.AssetID != tx.AssetID {
		newAsset, err = s.storage.Assets().Get(ctx, req.AssetID)
		if err != nil {
			return nil, fmt.Errorf("load target asset: %w", err)
		}
		if newAsset.UserID != userID {
			return nil, fmt.Errorf("%w: target asset does not belong to user", ErrInvalidArgument)
		}
	}

	change := EditChange{
		Asset:  newAsset,
		Type:   newType,
		Amount: req.Amount,
		Note:   req.Note,
		Date:   req.Date,
	}
	if err := EditTransaction(tx, oldAsset, change); err != nil {
		return nil, err
	}

	oldAsset.UpdatedAt = s.now()
	if err := s.storage.Assets().Save(ctx, oldAsset); err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}
	if newAsset != oldAsset {
		newAsset.UpdatedAt = s.now()
		if err := s.storage.Assets().Save(ctx, newAsset); err != nil {
			return nil, fmt.Errorf("save target asset: %w", err)
		}
	}
	if err := s.storage.Transactions().Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("tx_id", txID).
		Str("type", string(newType)).
		Msg("transaction edited")

	return tx, nil
}

// SellPosition sells req.Quantity units of an asset at req.UnitPrice. The
// proceeds are credited to liquid equity. Selling more units than held is
// rejected.
func (s *Service) SellPosition(ctx context.Context, userID, assetID string, req interfaces.SellRequest) (*models.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	if req.UnitPrice < 0 {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrInvalidArgument)
	}

	asset, err := s.storage.Assets().Get(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}
	if asset.UserID != userID {
		return nil, fmt.Errorf("%w: asset does not belong to user", ErrInvalidArgument)
	}
	if req.Quantity > asset.Quantity {
		return nil, fmt.Errorf("%w: cannot sell %.4f units, only %.4f held",
			ErrInvalidArgument, req.Quantity, asset.Quantity)
	}

	return s.Record(ctx, userID, interfaces.RecordRequest{
		AssetID:        assetID,
		Type:           string(models.TxSell),
		Quantity:       req.Quantity,
		Amount:         req.Quantity * req.UnitPrice,
		AmountProvided: true,
		Date:           req.Date,
		Note:           req.Note,
	})
}

// DeleteAsset removes an asset and all transactions referencing it.
// Returns the number of transactions deleted.
func (s *Service) DeleteAsset(ctx context.Context, userID, assetID string) (int, error) {
	asset, err := s.storage.Assets().Get(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("load asset: %w", err)
	}
	if asset.UserID != userID {
		return 0, fmt.Errorf("%w: asset does not belong to user", ErrInvalidArgument)
	}

	removed, err := s.storage.Transactions().DeleteByAsset(ctx, assetID)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	if err := s.storage.Assets().Delete(ctx, assetID); err != nil {
		return removed, fmt.Errorf("delete asset: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("asset_id", assetID).
		Int("transactions_removed", removed).
		Msg("asset deleted")

	return removed, nil
}

// RefreshEquity adds the user's monthly income to their liquid equity.
func (s *Service) RefreshEquity(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	user.LiquidEquity += user.MonthlyIncome
	if err := s.storage.Users().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Float64("liquid_equity", user.LiquidEquity).
		Msg("liquid equity refreshed")

	return user, nil
}

// resolveAsset returns the asset a transaction targets, creating one from a
// catalog entry when the user has no holding for it yet.
func (s *Service) resolveAsset(ctx context.Context, userID string, req interfaces.RecordRequest) (*models.Asset, error) {
	if req.AssetID != "" {
		asset, err := s.storage.Assets().Get(ctx, req.AssetID)
		if err != nil {
			return nil, fmt.Errorf("load asset: %w", err)
		}
		if asset.UserID != userID {
			return nil, fmt.Errorf("%w: asset does not belong to user", ErrInvalidArgument)
		}
		return asset, nil
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.CatalogSymbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: either asset_id or symbol is required", ErrInvalidArgument)
	}

	entry, err := s.storage.Catalog().GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown symbol %q", ErrInvalidArgument, symbol)
	}

	if existing, err := s.storage.Assets().GetByName(ctx, userID, entry.Name); err == nil && existing != nil {
		return existing, nil
	}

	now := s.now()
	asset := &models.Asset{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         entry.Type,
		Name:         entry.Name,
		Symbol:       entry.Symbol,
		Currency:     entry.Currency,
		Color:        models.ColorFor(entry.Name, entry.Type),
		PurchaseDate: now.Format("2006-01-02"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("symbol", symbol).
		Msg("asset created from catalog entry")

	return asset, nil
}
