package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whaletrack/internal/common"
	"whaletrack/internal/models"
)

// fakeArchive is an in-memory InternalStore for handler tests.
type fakeArchive struct {
	kv      map[string]string
	reports map[string]*models.ArchivedReport
	latest  string
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		kv:      make(map[string]string),
		reports: make(map[string]*models.ArchivedReport),
	}
}

func (f *fakeArchive) GetSystemKV(_ context.Context, key string) (string, error) {
	return f.kv[key], nil
}

func (f *fakeArchive) SetSystemKV(_ context.Context, key, value string) error {
	f.kv[key] = value
	return nil
}

func (f *fakeArchive) SaveReport(_ context.Context, report *models.ArchivedReport) error {
	f.reports[report.Name] = report
	f.latest = report.Name
	return nil
}

func (f *fakeArchive) GetReport(_ context.Context, name string) (*models.ArchivedReport, error) {
	report, ok := f.reports[name]
	if !ok {
		return nil, models.ErrNotFound
	}
	return report, nil
}

func (f *fakeArchive) LatestReport(ctx context.Context) (*models.ArchivedReport, error) {
	if f.latest == "" {
		return nil, models.ErrNotFound
	}
	return f.GetReport(ctx, f.latest)
}

func (f *fakeArchive) ListReports(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.reports))
	for name := range f.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeArchive) Close() error { return nil }

func newTestServer(t *testing.T) (*Server, *fakeArchive) {
	t.Helper()
	archive := newFakeArchive()
	config := common.NewDefaultConfig()
	return NewServer(config, archive, common.NewSilentLogger()), archive
}

func seedReport(t *testing.T, archive *fakeArchive) *models.ArchivedReport {
	t.Helper()
	generated := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)
	report := &models.ArchivedReport{
		Name:        "berkshire_analysis_20260515_0900",
		Institution: "Berkshire Hathaway Inc",
		GeneratedAt: generated,
		Markdown:    "# Holdings Analysis: Berkshire Hathaway Inc\n",
		Analysis: &models.PortfolioAnalysis{
			Institution: "Berkshire Hathaway Inc",
			GeneratedAt: generated,
			TotalValue:  decimal.NewFromInt(29000),
			SaleHistory: []models.SaleRecord{
				{Ticker: "ATVI", SharesSold: 500, SaleType: models.SaleFullExit, RecordedAt: time.Now().AddDate(0, -6, 0)},
				{Ticker: "AAPL", SharesSold: 40, SaleType: models.SalePartial, RemainingShares: 60, RecordedAt: time.Now().AddDate(0, 0, -2)},
			},
		},
	}
	require.NoError(t, archive.SaveReport(context.Background(), report))
	return report
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVersion(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/version")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "commit")
}

func TestLatestAnalysis(t *testing.T) {
	s, archive := newTestServer(t)

	rec := get(t, s, "/api/analysis/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	seedReport(t, archive)
	rec = get(t, s, "/api/analysis/latest")
	assert.Equal(t, http.StatusOK, rec.Code)

	var analysis models.PortfolioAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, "Berkshire Hathaway Inc", analysis.Institution)
	assert.Len(t, analysis.SaleHistory, 2)
}

func TestSalesWindow(t *testing.T) {
	s, archive := newTestServer(t)
	seedReport(t, archive)

	rec := get(t, s, "/api/sales")
	require.Equal(t, http.StatusOK, rec.Code)
	var full struct {
		Count int                 `json:"count"`
		Sales []models.SaleRecord `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	assert.Equal(t, 2, full.Count)

	rec = get(t, s, "/api/sales?days=30")
	require.Equal(t, http.StatusOK, rec.Code)
	var recent struct {
		Count int                 `json:"count"`
		Sales []models.SaleRecord `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	require.Equal(t, 1, recent.Count)
	assert.Equal(t, "AAPL", recent.Sales[0].Ticker)

	rec = get(t, s, "/api/sales?days=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports(t *testing.T) {
	s, archive := newTestServer(t)
	report := seedReport(t, archive)

	rec := get(t, s, "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count   int      `json:"count"`
		Reports []string `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, report.Name, list.Reports[0])

	rec = get(t, s, "/api/reports/"+report.Name)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, report.Markdown, rec.Body.String())

	rec = get(t, s, "/api/reports/"+report.Name+"?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	var archived models.ArchivedReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Equal(t, report.Name, archived.Name)

	rec = get(t, s, "/api/reports/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
