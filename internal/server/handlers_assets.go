package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

// routeAssets dispatches /api/assets/{id} and /api/assets/{id}/sell.
func (s *Server) routeAssets(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/sell") {
		s.handleAssetSell(w, r)
		return
	}
	s.handleAssetByID(w, r)
}

// handleAssetList handles GET /api/assets with optional type/currency filters.
func (s *Server) handleAssetList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	assets, err := s.app.Storage.Assets().ListByUser(r.Context(), uc.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	typFilter := r.URL.Query().Get("type")
	ccyFilter := strings.ToUpper(r.URL.Query().Get("currency"))
	activeOnly := r.URL.Query().Get("active") == "true"

	filtered := make([]*models.Asset, 0, len(assets))
	for _, a := range assets {
		if typFilter != "" && !strings.EqualFold(a.Type, typFilter) {
			continue
		}
		if ccyFilter != "" && a.Currency != ccyFilter {
			continue
		}
		if activeOnly && !a.Active() {
			continue
		}
		filtered = append(filtered, a)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"assets": filtered,
		"count":  len(filtered),
	})
}

type assetUpdateRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"asset_type"`
	Symbol       *string `json:"symbol"`
	Currency     *string `json:"currency"`
	PurchaseDate *string `json:"purchase_date"`
	Color        *string `json:"color"`
}

// handleAssetByID handles PUT and DELETE /api/assets/{id}.
func (s *Server) handleAssetByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	assetID := PathParam(r, "/api/assets/", "")
	if assetID == "" {
		WriteError(w, http.StatusBadRequest, "Asset ID is required")
		return
	}

	if r.Method == http.MethodDelete {
		removed, err := s.app.LedgerService.DeleteAsset(r.Context(), uc.UserID, assetID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"deleted":              true,
			"transactions_removed": removed,
		})
		return
	}

	asset, err := s.app.Storage.Assets().Get(r.Context(), assetID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if asset.UserID != uc.UserID {
		WriteError(w, http.StatusNotFound, "asset not found")
		return
	}

	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, asset)
		return
	}

	var req assetUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.Name != nil && *req.Name != "" {
		asset.Name = *req.Name
	}
	if req.Type != nil && *req.Type != "" {
		asset.Type = *req.Type
	}
	if req.Symbol != nil {
		asset.Symbol = strings.ToUpper(*req.Symbol)
	}
	if req.Currency != nil && *req.Currency != "" {
		asset.Currency = strings.ToUpper(*req.Currency)
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = *req.PurchaseDate
	}
	if req.Color != nil {
		asset.Color = *req.Color
	}
	asset.UpdatedAt = time.Now().UTC()

	if err := s.app.Storage.Assets().Save(r.Context(), asset); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, asset)
}

type sellRequest struct {
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Date      string  `json:"date"`
	Note      string  `json:"note"`
}

// handleAssetSell handles POST /api/assets/{id}/sell.
func (s *Server) handleAssetSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	assetID := PathParam(r, "/api/assets/", "/sell")
	if assetID == "" {
		WriteError(w, http.StatusBadRequest, "Asset ID is required")
		return
	}

	var req sellRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	date, ok := parseDate(w, req.Date)
	if !ok {
		return
	}

	tx, err := s.app.LedgerService.SellPosition(r.Context(), uc.UserID, assetID, interfaces.SellRequest{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Date:      date,
		Note:      req.Note,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tx)
}

// parseDate parses an optional RFC3339 or YYYY-MM-DD date string. An empty
// string yields the zero time (services default it to now).
func parseDate(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	WriteError(w, http.StatusBadRequest, "Invalid date format, use RFC3339 or YYYY-MM-DD")
	return time.Time{}, false
}
