package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yogibear102/wealthfolio/internal/app"
	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
	"github.com/yogibear102/wealthfolio/internal/services/ledger"
	"github.com/yogibear102/wealthfolio/internal/services/rates"
	"github.com/yogibear102/wealthfolio/internal/services/report"
	"github.com/yogibear102/wealthfolio/internal/services/valuation"
)

// In-memory storage used to exercise handlers end to end without SurrealDB.

type memUserStore struct{ users map[string]*models.User }

func (s *memUserStore) Get(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found: %s", id)
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found: %s", email)
}

func (s *memUserStore) Save(_ context.Context, u *models.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	delete(s.users, id)
	return nil
}

type memAssetStore struct{ assets map[string]*models.Asset }

func (s *memAssetStore) Get(_ context.Context, id string) (*models.Asset, error) {
	if a, ok := s.assets[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("asset not found: %s", id)
}

func (s *memAssetStore) GetByName(_ context.Context, userID, name string) (*models.Asset, error) {
	for _, a := range s.assets {
		if a.UserID == userID && a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("asset not found: %s", name)
}

func (s *memAssetStore) ListByUser(_ context.Context, userID string) ([]*models.Asset, error) {
	var out []*models.Asset
	for _, a := range s.assets {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAssetStore) ListActive(ctx context.Context, userID string) ([]*models.Asset, error) {
	all, _ := s.ListByUser(ctx, userID)
	var out []*models.Asset
	for _, a := range all {
		if a.Active() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAssetStore) Save(_ context.Context, a *models.Asset) error {
	s.assets[a.ID] = a
	return nil
}

func (s *memAssetStore) Delete(_ context.Context, id string) error {
	delete(s.assets, id)
	return nil
}

type memTxStore struct{ txs map[string]*models.Transaction }

func (s *memTxStore) Get(_ context.Context, id string) (*models.Transaction, error) {
	if tx, ok := s.txs[id]; ok {
		return tx, nil
	}
	return nil, fmt.Errorf("transaction not found: %s", id)
}

func (s *memTxStore) ListByUser(_ context.Context, userID string, filter models.TransactionFilter) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID && filter.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *memTxStore) Save(_ context.Context, tx *models.Transaction) error {
	s.txs[tx.ID] = tx
	return nil
}

func (s *memTxStore) Delete(_ context.Context, id string) error {
	delete(s.txs, id)
	return nil
}

func (s *memTxStore) DeleteByAsset(_ context.Context, assetID string) (int, error) {
	n := 0
	for id, tx := range s.txs {
		if tx.AssetID == assetID {
			delete(s.txs, id)
			n++
		}
	}
	return n, nil
}

type memCatalogStore struct{ entries map[string]*models.CatalogAsset }

func (s *memCatalogStore) GetBySymbol(_ context.Context, symbol string) (*models.CatalogAsset, error) {
	if e, ok := s.entries[symbol]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("catalog entry not found: %s", symbol)
}

func (s *memCatalogStore) Search(_ context.Context, query, typ string, limit int) ([]*models.CatalogAsset, error) {
	q := strings.ToLower(query)
	var out []*models.CatalogAsset
	for _, e := range s.entries {
		if typ != "" && e.Type != typ {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Symbol), q) && !strings.Contains(strings.ToLower(e.Name), q) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *memCatalogStore) Save(_ context.Context, e *models.CatalogAsset) error {
	s.entries[e.Symbol] = e
	return nil
}

type memStorage struct {
	users   *memUserStore
	assets  *memAssetStore
	txs     *memTxStore
	catalog *memCatalogStore
}

func newMemStorage() *memStorage {
	return &memStorage{
		users:   &memUserStore{users: map[string]*models.User{}},
		assets:  &memAssetStore{assets: map[string]*models.Asset{}},
		txs:     &memTxStore{txs: map[string]*models.Transaction{}},
		catalog: &memCatalogStore{entries: map[string]*models.CatalogAsset{}},
	}
}

func (s *memStorage) Users() interfaces.UserStore               { return s.users }
func (s *memStorage) Assets() interfaces.AssetStore             { return s.assets }
func (s *memStorage) Transactions() interfaces.TransactionStore { return s.txs }
func (s *memStorage) Catalog() interfaces.CatalogStore          { return s.catalog }
func (s *memStorage) Close() error                              { return nil }

type stubPriceService struct {
	price float64
	found bool
}

func (s *stubPriceService) LatestPrice(_ context.Context, _, _ string) (float64, bool) {
	return s.price, s.found
}

type stubInsightClient struct {
	reply string
	err   error
}

func (s *stubInsightClient) GenerateContent(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

// harness bundles a test server with its backing stores and stubs.
type harness struct {
	server  *Server
	storage *memStorage
	price   *stubPriceService
	insight *stubInsightClient
	config  *common.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	storage := newMemStorage()
	price := &stubPriceService{}
	insight := &stubInsightClient{reply: "looks balanced"}
	logger := common.NewSilentLogger()

	config := common.NewDefaultConfig()
	config.Auth.JWTSecret = "test-secret-key"
	config.Auth.TokenExpiry = "1h"

	ratesService := rates.NewService("", logger)
	ledgerService := ledger.NewService(storage, price, logger)
	valuationService := valuation.NewService(storage, ratesService, logger)
	reportService := report.NewService(storage, valuationService, ratesService, insight, logger)

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Storage:          storage,
		PriceService:     price,
		RatesService:     ratesService,
		LedgerService:    ledgerService,
		ValuationService: valuationService,
		ReportService:    reportService,
		StartupTime:      time.Now(),
	}

	return &harness{
		server:  NewServer(a),
		storage: storage,
		price:   price,
		insight: insight,
		config:  config,
	}
}

// seedUser stores a user and returns a bearer token for them.
func (h *harness) seedUser(t *testing.T, user *models.User) string {
	t.Helper()
	h.storage.users.users[user.ID] = user
	token, err := signJWT(user, &h.config.Auth)
	require.NoError(t, err)
	return token
}

// do performs a request against the full middleware chain.
func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
