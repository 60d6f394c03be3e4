package server

import (
	"net/http"
	"time"

	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

// routeTransactions dispatches GET and POST /api/transactions.
func (s *Server) routeTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleTransactionList(w, r)
	case http.MethodPost:
		s.handleTransactionCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionList handles GET /api/transactions with optional filters:
// note (substring), type, asset_id, from, to (exclusive).
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	q := r.URL.Query()
	filter := models.TransactionFilter{
		NoteContains: q.Get("note"),
		AssetID:      q.Get("asset_id"),
	}
	if raw := q.Get("type"); raw != "" {
		txType, ok := models.CanonicalTransactionType(raw)
		if !ok {
			WriteError(w, http.StatusBadRequest, "Unknown transaction type: "+raw)
			return
		}
		filter.Type = txType
	}
	if raw := q.Get("from"); raw != "" {
		t, ok := parseDate(w, raw)
		if !ok {
			return
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, ok := parseDate(w, raw)
		if !ok {
			return
		}
		filter.To = t
	}

	txs, err := s.app.Storage.Transactions().ListByUser(r.Context(), uc.UserID, filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

type transactionCreateRequest struct {
	AssetID  string   `json:"asset_id"`
	Symbol   string   `json:"symbol"`
	Type     string   `json:"tx_type"`
	Quantity float64  `json:"quantity"`
	Amount   *float64 `json:"amount"`
	Date     string   `json:"date"`
	Note     string   `json:"note"`
}

// handleTransactionCreate handles POST /api/transactions. The amount is
// optional: when omitted the transaction is priced from market data, and a
// 422 asks for manual entry when no price is available.
func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	var req transactionCreateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	record := interfaces.RecordRequest{
		AssetID:       req.AssetID,
		CatalogSymbol: req.Symbol,
		Type:          req.Type,
		Quantity:      req.Quantity,
		Date:          date,
		Note:          req.Note,
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
		record.AmountProvided = true
	}

	tx, err := s.app.LedgerService.Record(r.Context(), uc.UserID, record)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tx)
}

type transactionEditRequest struct {
	AssetID string  `json:"asset_id"`
	Type    string  `json:"tx_type"`
	Amount  float64 `json:"amount"`
	Note    *string `json:"note"`
	Date    *string `json:"date"`
}

// handleTransactionEdit handles PUT /api/transactions/{id}.
func (s *Server) handleTransactionEdit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	txID := PathParam(r, "/api/transactions/", "")
	if txID == "" {
		WriteError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	var req transactionEditRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	edit := interfaces.EditRequest{
		AssetID: req.AssetID,
		Type:    req.Type,
		Amount:  req.Amount,
		Note:    req.Note,
	}
	if req.Date != nil {
		t, ok := parseDate(w, *req.Date)
		if !ok {
			return
		}
		edit.Date = &t
	}

	tx, err := s.app.LedgerService.Edit(r.Context(), uc.UserID, txID, edit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tx)
}

// handleEquityRefresh handles POST /api/equity/refresh: adds the user's
// monthly income to their liquid equity.
func (s *Server) handleEquityRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	user, err := s.app.LedgerService.RefreshEquity(r.Context(), uc.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"liquid_equity":  user.LiquidEquity,
		"monthly_income": user.MonthlyIncome,
		"refreshed_at":   time.Now().UTC(),
	})
}
