package edgar

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whaletrack/internal/models"
)

const testSubmissions = `{
	"cik": "1067983",
	"name": "BERKSHIRE HATHAWAY INC",
	"filings": {
		"recent": {
			"accessionNumber": ["0000950123-26-004567", "0000950123-26-001234"],
			"filingDate": ["2026-05-15", "2026-02-14"],
			"reportDate": ["2026-03-31", "2025-12-31"],
			"form": ["13F-HR", "13F-HR"],
			"primaryDocument": ["primary_doc.xml", "primary_doc.xml"]
		}
	}
}`

const testIndex = `{
	"directory": {
		"item": [
			{"name": "primary_doc.xml", "type": "text.gif"},
			{"name": "form13fInfoTable.xml", "type": "text.gif"},
			{"name": "0000950123-26-004567-index.htm", "type": "text.gif"}
		]
	}
}`

// Two AAPL entries to exercise same-CUSIP aggregation, one bond entry to
// skip, and one unknown CUSIP to drop.
const testInfoTable = `<?xml version="1.0" encoding="UTF-8"?>
<informationTable xmlns="http://www.sec.gov/edgar/document/thirteenf/informationtable">
	<infoTable>
		<nameOfIssuer>APPLE INC</nameOfIssuer>
		<cusip>037833100</cusip>
		<value>60000</value>
		<shrsOrPrnAmt><sshPrnamt>400</sshPrnamt><sshPrnamtType>SH</sshPrnamtType></shrsOrPrnAmt>
	</infoTable>
	<infoTable>
		<nameOfIssuer>APPLE INC</nameOfIssuer>
		<cusip>037833100</cusip>
		<value>30000</value>
		<shrsOrPrnAmt><sshPrnamt>200</sshPrnamt><sshPrnamtType>SH</sshPrnamtType></shrsOrPrnAmt>
	</infoTable>
	<infoTable>
		<nameOfIssuer>COCA COLA CO</nameOfIssuer>
		<cusip>191216100</cusip>
		<value>25000</value>
		<shrsOrPrnAmt><sshPrnamt>500</sshPrnamt><sshPrnamtType>SH</sshPrnamtType></shrsOrPrnAmt>
	</infoTable>
	<infoTable>
		<nameOfIssuer>SOME CORP NOTE</nameOfIssuer>
		<cusip>999999999</cusip>
		<value>1000</value>
		<shrsOrPrnAmt><sshPrnamt>1000000</sshPrnamt><sshPrnamtType>PRN</sshPrnamtType></shrsOrPrnAmt>
	</infoTable>
	<infoTable>
		<nameOfIssuer>MYSTERY HOLDINGS</nameOfIssuer>
		<cusip>111111111</cusip>
		<value>5000</value>
		<shrsOrPrnAmt><sshPrnamt>100</sshPrnamt><sshPrnamtType>SH</sshPrnamtType></shrsOrPrnAmt>
	</infoTable>
</informationTable>`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient("whaletrack-test/1.0",
		WithSubmissionsURL(srv.URL),
		WithArchivesURL(srv.URL),
		WithRateLimit(100),
	)
	return client, srv
}

func edgarMux(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0001067983.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "whaletrack-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(testSubmissions))
	})
	mux.HandleFunc("/Archives/edgar/data/1067983/000095012326004567/index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testIndex))
	})
	mux.HandleFunc("/Archives/edgar/data/1067983/000095012326004567/form13fInfoTable.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testInfoTable))
	})
	return mux
}

func TestLatestFiling(t *testing.T) {
	client, _ := newTestClient(t, edgarMux(t))

	filing, err := client.LatestFiling(context.Background(), "1067983")
	require.NoError(t, err)

	assert.Equal(t, "0001067983", filing.CIK)
	assert.Equal(t, "BERKSHIRE HATHAWAY INC", filing.CompanyName)
	assert.Equal(t, "13F-HR", filing.FormType)
	assert.Equal(t, "0000950123-26-004567", filing.AccessionNo)
	assert.Equal(t, "2026-05-15", filing.FiledAt.Format("2006-01-02"))

	// AAPL aggregated across two entries, KO passed through, the bond
	// skipped silently, the unknown CUSIP dropped and counted.
	require.Len(t, filing.Positions, 2)
	assert.Equal(t, 1, filing.Unresolved)

	aapl := filing.Positions[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, int64(600), aapl.Shares)
	assert.True(t, aapl.Value.Equal(decimal.NewFromInt(90000000)), "value scaled from thousands, got %s", aapl.Value)

	ko := filing.Positions[1]
	assert.Equal(t, "KO", ko.Ticker)
	assert.Equal(t, int64(500), ko.Shares)
	assert.True(t, ko.Value.Equal(decimal.NewFromInt(25000000)))
}

func TestLatestFilingTickerOverride(t *testing.T) {
	srv := httptest.NewServer(edgarMux(t))
	defer srv.Close()

	client := NewClient("whaletrack-test/1.0",
		WithSubmissionsURL(srv.URL),
		WithArchivesURL(srv.URL),
		WithRateLimit(100),
		WithTickerOverrides(map[string]string{"111111111": "myst"}),
	)

	filing, err := client.LatestFiling(context.Background(), "1067983")
	require.NoError(t, err)

	require.Len(t, filing.Positions, 3)
	assert.Zero(t, filing.Unresolved)
	assert.Equal(t, "MYST", filing.Positions[2].Ticker)
}

// gzipHandler compresses responses when the request advertises gzip,
// the way data.sec.gov serves its payloads.
func gzipHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.writer.Write(b)
}

func TestLatestFilingGzipResponse(t *testing.T) {
	client, _ := newTestClient(t, gzipHandler(edgarMux(t)))

	filing, err := client.LatestFiling(context.Background(), "1067983")
	require.NoError(t, err)

	assert.Equal(t, "0000950123-26-004567", filing.AccessionNo)
	require.Len(t, filing.Positions, 2)
	assert.Equal(t, "AAPL", filing.Positions[0].Ticker)
}

func TestLatestFilingTruncatedSubmissions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0001067983.json", func(w http.ResponseWriter, r *http.Request) {
		// Form names a 13F but the parallel arrays are empty.
		w.Write([]byte(`{"cik":"1067983","name":"X","filings":{"recent":{"accessionNumber":[],"filingDate":[],"reportDate":[],"form":["13F-HR"],"primaryDocument":[]}}}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.LatestFiling(context.Background(), "1067983")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of sync")
}

func TestLatestFilingNo13F(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0001067983.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cik":"1067983","name":"X","filings":{"recent":{"accessionNumber":["a"],"filingDate":["2026-01-01"],"reportDate":["2025-12-31"],"form":["10-K"],"primaryDocument":["doc.htm"]}}}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.LatestFiling(context.Background(), "1067983")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no 13F-HR filing")
}

func TestLatestFilingAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Request Rate Threshold Exceeded", http.StatusTooManyRequests)
	}))

	_, err := client.LatestFiling(context.Background(), "1067983")
	require.Error(t, err)

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestPadCIK(t *testing.T) {
	assert.Equal(t, "0001067983", padCIK("1067983"))
	assert.Equal(t, "0001067983", padCIK("0001067983"))
	assert.Equal(t, "0000000000", padCIK(""))
}
