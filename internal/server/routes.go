package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Users & auth
	mux.HandleFunc("/api/users", s.handleUserRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)
	mux.HandleFunc("/api/settings", s.handleSettings)

	// Assets
	mux.HandleFunc("/api/assets/", s.routeAssets)
	mux.HandleFunc("/api/assets", s.handleAssetList)

	// Transactions
	mux.HandleFunc("/api/transactions/", s.handleTransactionEdit)
	mux.HandleFunc("/api/transactions", s.routeTransactions)

	// Net worth
	mux.HandleFunc("/api/networth", s.handleNetWorth)
	mux.HandleFunc("/api/networth/chart", s.handleNetWorthChart)
	mux.HandleFunc("/api/networth/insight", s.handleNetWorthInsight)

	// Exports
	mux.HandleFunc("/api/export/csv", s.handleExportCSV)
	mux.HandleFunc("/api/export/pdf", s.handleExportPDF)

	// Catalog & prices
	mux.HandleFunc("/api/catalog", s.handleCatalogSearch)
	mux.HandleFunc("/api/price/", s.handlePrice)

	// Liquid equity
	mux.HandleFunc("/api/equity/refresh", s.handleEquityRefresh)
}
