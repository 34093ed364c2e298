package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"whaletrack/internal/common"
	"whaletrack/internal/models"
)

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with build info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleLatestAnalysis serves the analysis from the most recently
// archived report.
func (s *Server) handleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	report, err := s.archive.LatestReport(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "No analysis available yet")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load latest report")
		WriteError(w, http.StatusInternalServerError, "Failed to load latest analysis")
		return
	}
	if report.Analysis == nil {
		WriteError(w, http.StatusNotFound, "Latest report carries no analysis payload")
		return
	}

	WriteJSON(w, http.StatusOK, report.Analysis)
}

// handleSales serves the sale history from the latest archived analysis.
// ?days=N trims the view to the last N days; default is the complete
// history.
func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	report, err := s.archive.LatestReport(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "No analysis available yet")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load latest report")
		WriteError(w, http.StatusInternalServerError, "Failed to load sale history")
		return
	}
	if report.Analysis == nil {
		WriteError(w, http.StatusNotFound, "Latest report carries no analysis payload")
		return
	}

	sales := report.Analysis.SaleHistory
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil || days <= 0 {
			WriteError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		cutoff := time.Now().AddDate(0, 0, -days)
		filtered := make([]models.SaleRecord, 0, len(sales))
		for _, sale := range sales {
			if !sale.RecordedAt.Before(cutoff) {
				filtered = append(filtered, sale)
			}
		}
		sales = filtered
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(sales),
		"sales": sales,
	})
}

// handleListReports lists archived report names.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	names, err := s.archive.ListReports(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list reports")
		WriteError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(names),
		"reports": names,
	})
}

// handleGetReport serves one archived report. The markdown body is
// returned as text; ?format=json returns the full archive record.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if name == "" || strings.Contains(name, "/") {
		WriteError(w, http.StatusBadRequest, "Report name is required")
		return
	}

	report, err := s.archive.GetReport(r.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Report not found")
			return
		}
		s.logger.Error().Err(err).Str("report", name).Msg("Failed to load report")
		WriteError(w, http.StatusInternalServerError, "Failed to load report")
		return
	}

	if r.URL.Query().Get("format") == "json" {
		WriteJSON(w, http.StatusOK, report)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.Markdown))
}
