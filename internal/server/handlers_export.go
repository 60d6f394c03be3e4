package server

import (
	"fmt"
	"net/http"
	"time"
)

// handleExportCSV handles GET /api/export/csv.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
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

	data, err := s.app.ReportService.ExportCSV(r.Context(), user)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("wealthfolio-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleExportPDF handles GET /api/export/pdf.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
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

	data, err := s.app.ReportService.ExportPDF(r.Context(), user)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("wealthfolio-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
