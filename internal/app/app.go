// Package app wires configuration, storage, clients, and services into a
// runnable application core shared by the server and seed commands.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yogibear102/wealthfolio/internal/clients/gemini"
	"github.com/yogibear102/wealthfolio/internal/clients/twelvedata"
	"github.com/yogibear102/wealthfolio/internal/clients/yahoo"
	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/services/ledger"
	"github.com/yogibear102/wealthfolio/internal/services/price"
	"github.com/yogibear102/wealthfolio/internal/services/rates"
	"github.com/yogibear102/wealthfolio/internal/services/report"
	"github.com/yogibear102/wealthfolio/internal/services/valuation"
	"github.com/yogibear102/wealthfolio/internal/storage/surrealdb"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config  *common.Config
	Logger  *common.Logger
	Storage interfaces.StorageManager

	PriceService     interfaces.PriceService
	RatesService     interfaces.RatesProvider
	LedgerService    interfaces.LedgerService
	ValuationService interfaces.ValuationService
	ReportService    interfaces.ReportService

	StartupTime time.Time

	priceCache      *price.Service
	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load configuration - check provided path, WEALTHFOLIO_CONFIG, then
	// binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("WEALTHFOLIO_CONFIG")
	}
	if configPath == "" {
		binDir := getBinaryDir()
		configPath = filepath.Join(binDir, "wealthfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/wealthfolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Market-data clients. Twelve Data is the primary provider when a key is
	// configured; Yahoo needs no key and always serves as fallback.
	var primary interfaces.PriceClient
	if config.Clients.TwelveData.APIKey != "" {
		opts := []twelvedata.ClientOption{
			twelvedata.WithLogger(logger),
			twelvedata.WithRateLimit(config.Clients.TwelveData.RateLimit),
			twelvedata.WithTimeout(config.Clients.TwelveData.GetTimeout()),
		}
		if config.Clients.TwelveData.BaseURL != "" {
			opts = append(opts, twelvedata.WithBaseURL(config.Clients.TwelveData.BaseURL))
		}
		primary = twelvedata.NewClient(config.Clients.TwelveData.APIKey, opts...)
	} else {
		logger.Warn().Msg("Twelve Data API key not configured - using Yahoo Finance only")
	}

	yahooOpts := []yahoo.ClientOption{
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	}
	if config.Clients.Yahoo.BaseURL != "" {
		yahooOpts = append(yahooOpts, yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL))
	}
	fallback := yahoo.NewClient(yahooOpts...)

	var insight interfaces.InsightClient
	if config.Clients.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - insights disabled")
		} else {
			insight = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - insights disabled")
	}

	priceService := price.NewService(primary, fallback, logger,
		price.WithTTL(config.Clients.GetPriceTTL()))
	ratesService := rates.NewService(config.Rates.Path, logger)
	ledgerService := ledger.NewService(storageManager, priceService, logger)
	valuationService := valuation.NewService(storageManager, ratesService, logger)
	reportService := report.NewService(storageManager, valuationService, ratesService, insight, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		PriceService:     priceService,
		RatesService:     ratesService,
		LedgerService:    ledgerService,
		ValuationService: valuationService,
		ReportService:    reportService,
		StartupTime:      time.Now(),
		priceCache:       priceService,
	}

	if err := a.startScheduler(); err != nil {
		logger.Warn().Err(err).Msg("Background scheduler disabled")
	}

	return a, nil
}

// Close stops background jobs and releases storage connections.
func (a *App) Close() error {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
