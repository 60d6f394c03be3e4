package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleCatalogSearch handles GET /api/catalog?q=&type=&limit=.
func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if s.requireUser(w, r) == nil {
		return
	}

	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.app.Storage.Catalog().Search(r.Context(), q.Get("q"), q.Get("type"), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"results": entries,
		"count":   len(entries),
	})
}

// handlePrice handles GET /api/price/{symbol}/{type}.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if s.requireUser(w, r) == nil {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/price/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		WriteError(w, http.StatusBadRequest, "Path must be /api/price/{symbol}/{type}")
		return
	}
	symbol, assetType := parts[0], parts[1]

	value, found := s.app.PriceService.LatestPrice(r.Context(), symbol, assetType)
	if !found {
		WriteError(w, http.StatusNotFound, "No price available for "+symbol)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"symbol":     strings.ToUpper(symbol),
		"asset_type": assetType,
		"price":      value,
	})
}
