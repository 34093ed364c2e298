package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whaletrack/internal/models"
)

const testChart = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "AAPL",
				"regularMarketPrice": 210.50,
				"regularMarketDayHigh": 212.00,
				"regularMarketDayLow": 208.30,
				"chartPreviousClose": 209.10,
				"regularMarketVolume": 51234567
			},
			"indicators": {
				"quote": [{
					"close": [null, 200.00, 202.50, 205.00, 209.10]
				}]
			}
		}],
		"error": null
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithRateLimit(100))
}

func TestQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		w.Write([]byte(testChart))
	})
	fetchedAt := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fetchedAt }

	record, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", record.Ticker)
	assert.True(t, record.Price.Equal(decimal.NewFromFloat(210.50)))
	assert.True(t, record.DayHigh.Equal(decimal.NewFromFloat(212.00)))
	assert.True(t, record.DayLow.Equal(decimal.NewFromFloat(208.30)))
	assert.Equal(t, int64(51234567), record.Volume)
	assert.Equal(t, fetchedAt, record.FetchedAt)
	// First non-nil close is 200.00: (210.50-200)/200 = 5.25%
	assert.InDelta(t, 5.25, record.Change1MPct, 0.001)
}

func TestQuoteNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, http.StatusNotFound)
	})

	_, err := client.Quote(context.Background(), "NOPE")
	require.Error(t, err)

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/v8/finance/chart/NOPE", apiErr.Endpoint)
}

func TestQuoteChartError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid symbol"}}}`))
	})

	_, err := client.Quote(context.Background(), "???")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid symbol")
}

func TestQuoteNoPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"X"},"indicators":{"quote":[]}}],"error":null}}`))
	})

	_, err := client.Quote(context.Background(), "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no market price")
}

func TestMonthChangeEmptySeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"NEW","regularMarketPrice":10.0},"indicators":{"quote":[{"close":[null,null]}]}}],"error":null}}`))
	})

	record, err := client.Quote(context.Background(), "NEW")
	require.NoError(t, err)
	assert.Zero(t, record.Change1MPct)
}
