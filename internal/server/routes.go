package server

import "net/http"

// registerRoutes wires all status API endpoints.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/analysis/latest", s.handleLatestAnalysis)
	mux.HandleFunc("/api/sales", s.handleSales)
	mux.HandleFunc("/api/reports", s.handleListReports)
	mux.HandleFunc("/api/reports/", s.handleGetReport)
}
