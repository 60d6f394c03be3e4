// Command wealthfolio-seed loads demo data into the configured SurrealDB
// instance: a demo user with a few assets and their purchase transactions,
// plus an optional batch of random transactions for load testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/yogibear102/wealthfolio/internal/app"
	"github.com/yogibear102/wealthfolio/internal/models"
	"github.com/yogibear102/wealthfolio/internal/services/ledger"
)

func main() {
	godotenv.Load()

	var (
		configPath = flag.String("config", "", "path to wealthfolio.toml")
		email      = flag.String("email", "demo@example.com", "demo user email")
		password   = flag.String("password", "Password123", "demo user password")
		bulk       = flag.Int("bulk", 0, "number of random transactions to generate")
	)
	flag.Parse()

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()

	user, err := seedUser(ctx, a, *email, *password)
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("Seeding user failed")
	}

	if err := seedCatalog(ctx, a); err != nil {
		a.Logger.Fatal().Err(err).Msg("Seeding catalog failed")
	}

	assets, err := seedAssets(ctx, a, user)
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("Seeding assets failed")
	}

	if *bulk > 0 {
		if err := seedBulk(ctx, a, user, assets, *bulk); err != nil {
			a.Logger.Fatal().Err(err).Msg("Bulk load failed")
		}
	}

	a.Logger.Info().Str("email", *email).Msg("Demo data loaded")
	fmt.Printf("Login with:\n  Email:    %s\n  Password: %s\n", *email, *password)
}

// seedUser creates the demo user unless the email is already registered.
func seedUser(ctx context.Context, a *app.App, email, password string) (*models.User, error) {
	if existing, err := a.Storage.Users().GetByEmail(ctx, email); err == nil {
		a.Logger.Info().Str("email", email).Msg("Demo user already exists, reusing")
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  string(hash),
		FirstName:     "Demo",
		LastName:      "User",
		BaseCurrency:  "USD",
		LiquidEquity:  50000,
		MonthlyIncome: 5000,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.Storage.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func seedCatalog(ctx context.Context, a *app.App) error {
	entries := []*models.CatalogAsset{
		{Symbol: "AAPL", Name: "Apple Inc", Type: models.AssetTypeStock, Currency: "USD"},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Type: models.AssetTypeStock, Currency: "USD"},
		{Symbol: "GOLD", Name: "Gold Spot", Type: models.AssetTypeCommodity, Currency: "USD"},
		{Symbol: "SILVER", Name: "Silver Spot", Type: models.AssetTypeCommodity, Currency: "USD"},
		{Symbol: "EURUSD", Name: "Euro / US Dollar", Type: models.AssetTypeForex, Currency: "USD"},
	}
	for _, e := range entries {
		e.LastRefreshed = time.Now().UTC()
		if err := a.Storage.Catalog().Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// seedAssets creates the sample holdings with their purchase transactions.
func seedAssets(ctx context.Context, a *app.App, user *models.User) ([]*models.Asset, error) {
	if existing, err := a.Storage.Assets().ListByUser(ctx, user.ID); err == nil && len(existing) > 0 {
		a.Logger.Info().Int("count", len(existing)).Msg("User already has assets, skipping")
		return existing, nil
	}

	seeds := []struct {
		asset models.Asset
		note  string
	}{
		{
			asset: models.Asset{
				Type: models.AssetTypeRealEstate, Name: "House in Mumbai",
				Quantity: 1, CurrentValue: 12000000, Currency: "INR",
				PurchaseDate: "2015-01-01",
			},
			note: "Purchased property in Mumbai",
		},
		{
			asset: models.Asset{
				Type: models.AssetTypeCommodity, Name: "Gold Ornaments", Symbol: "GOLD",
				Quantity: 2, CurrentValue: 400000, Currency: "INR",
				PurchaseDate: "2020-05-10",
			},
			note: "Bought gold ornaments",
		},
		{
			asset: models.Asset{
				Type: models.AssetTypeStock, Name: "TechCorp Shares",
				Quantity: 50, CurrentValue: 250000, Currency: "INR",
				PurchaseDate: "2021-08-15",
			},
			note: "Invested in TechCorp stocks",
		},
	}

	var out []*models.Asset
	for _, s := range seeds {
		asset := s.asset
		asset.ID = uuid.NewString()
		asset.UserID = user.ID
		asset.Color = models.ColorFor(asset.Name, asset.Type)
		asset.CreatedAt = time.Now().UTC()
		asset.UpdatedAt = asset.CreatedAt
		if err := a.Storage.Assets().Save(ctx, &asset); err != nil {
			return nil, err
		}

		date, _ := time.Parse("2006-01-02", asset.PurchaseDate)
		tx := &models.Transaction{
			ID:       uuid.NewString(),
			UserID:   user.ID,
			AssetID:  asset.ID,
			Type:     models.TxBuy,
			Quantity: asset.Quantity,
			Amount:   asset.CurrentValue,
			Date:     date,
			Note:     s.note,
		}
		if err := a.Storage.Transactions().Save(ctx, tx); err != nil {
			return nil, err
		}
		out = append(out, &asset)
	}
	return out, nil
}

// seedBulk generates count random transactions across the user's assets,
// applying each through the effect engine so values stay consistent.
func seedBulk(ctx context.Context, a *app.App, user *models.User, assets []*models.Asset, count int) error {
	types := []string{"buy", "sell", "income", "expense"}

	start := time.Now()
	for i := 0; i < count; i++ {
		asset := assets[rand.Intn(len(assets))]
		txType := types[rand.Intn(len(types))]
		amount := float64(int(rand.Float64()*49900+100)) / 100
		date := time.Now().UTC().AddDate(0, 0, -rand.Intn(3650))

		if _, err := ledger.ApplyEffect(asset, txType, amount, 0, false); err != nil {
			return err
		}

		canonical, _ := models.CanonicalTransactionType(txType)
		tx := &models.Transaction{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			AssetID: asset.ID,
			Type:    canonical,
			Amount:  amount,
			Date:    date,
			Note:    fmt.Sprintf("bulk %d", i),
		}
		if err := a.Storage.Transactions().Save(ctx, tx); err != nil {
			return err
		}

		if i%500 == 0 {
			if err := a.Storage.Assets().Save(ctx, asset); err != nil {
				return err
			}
		}
	}
	for _, asset := range assets {
		if err := a.Storage.Assets().Save(ctx, asset); err != nil {
			return err
		}
	}

	a.Logger.Info().
		Int("count", count).
		Dur("elapsed", time.Since(start)).
		Msg("Bulk transactions created")
	return nil
}
