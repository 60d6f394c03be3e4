package server

import (
	"net/http"
)

// getUser loads the authenticated user's record, writing an error response
// on failure.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) (ok bool, userID string) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return false, ""
	}
	return true, uc.UserID
}

// handleNetWorth handles GET /api/networth.
func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ok, userID := s.getUser(w, r)
	if !ok {
		return
	}

	user, err := s.app.Storage.Users().Get(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	nw, err := s.app.ValuationService.NetWorth(r.Context(), user)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, nw)
}

// handleNetWorthChart handles GET /api/networth/chart, returning a PNG pie
// chart of the allocation breakdown.
func (s *Server) handleNetWorthChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ok, userID := s.getUser(w, r)
	if !ok {
		return
	}

	user, err := s.app.Storage.Users().Get(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	png, err := s.app.ValuationService.RenderAllocationChart(r.Context(), user)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleNetWorthInsight handles GET /api/networth/insight.
func (s *Server) handleNetWorthInsight(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ok, userID := s.getUser(w, r)
	if !ok {
		return
	}

	user, err := s.app.Storage.Users().Get(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	text, err := s.app.ReportService.Insight(r.Context(), user)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"insight": text})
}
