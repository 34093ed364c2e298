// Package edgar provides a client for SEC EDGAR institutional filings
package edgar

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/models"
)

const (
	DefaultSubmissionsURL = "https://data.sec.gov"
	DefaultArchivesURL    = "https://www.sec.gov"
	DefaultTimeout        = 30 * time.Second
	DefaultRateLimit      = 5 // requests per second; SEC fair-access limit is 10
)

// Client implements the FilingClient interface against SEC EDGAR.
type Client struct {
	submissionsURL string
	archivesURL    string
	userAgent      string
	httpClient     *http.Client
	logger         *common.Logger
	limiter        *rate.Limiter
	overrides      map[string]string // CUSIP → ticker, merged over the built-in table
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithSubmissionsURL sets the submissions API base URL
func WithSubmissionsURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.submissionsURL = strings.TrimRight(baseURL, "/")
	}
}

// WithArchivesURL sets the filing archives base URL
func WithArchivesURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.archivesURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTickerOverrides adds CUSIP → ticker mappings on top of the
// built-in table. Overrides win on conflict.
func WithTickerOverrides(overrides map[string]string) ClientOption {
	return func(c *Client) {
		for cusip, ticker := range overrides {
			c.overrides[strings.ToUpper(strings.TrimSpace(cusip))] = strings.ToUpper(strings.TrimSpace(ticker))
		}
	}
}

// NewClient creates a new EDGAR client. SEC requires a descriptive
// User-Agent identifying the requester.
func NewClient(userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		submissionsURL: DefaultSubmissionsURL,
		archivesURL:    DefaultArchivesURL,
		userAgent:      userAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:    common.NewSilentLogger(),
		overrides: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// submissionsResponse is the subset of the submissions API payload we use.
// Recent filings arrive as parallel arrays indexed together.
type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// filingIndex is the directory listing of one filing's archive folder.
type filingIndex struct {
	Directory struct {
		Item []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"item"`
	} `json:"directory"`
}

// informationTable is the 13F information table XML document.
type informationTable struct {
	XMLName xml.Name `xml:"informationTable"`
	Entries []struct {
		NameOfIssuer string `xml:"nameOfIssuer"`
		CUSIP        string `xml:"cusip"`
		Value        int64  `xml:"value"` // thousands of dollars
		ShrsOrPrnAmt struct {
			SshPrnamt     int64  `xml:"sshPrnamt"`
			SshPrnamtType string `xml:"sshPrnamtType"`
		} `xml:"shrsOrPrnAmt"`
	} `xml:"infoTable"`
}

// LatestFiling retrieves the institution's most recent 13F-HR holdings
// report: submissions index → filing directory → information table XML,
// aggregated by CUSIP and resolved to tickers. Entries whose CUSIP has
// no known ticker are dropped and counted on the returned filing.
func (c *Client) LatestFiling(ctx context.Context, cik string) (*models.InstitutionalFiling, error) {
	padded := padCIK(cik)

	var subs submissionsResponse
	submissionsPath := fmt.Sprintf("/submissions/CIK%s.json", padded)
	if err := c.getJSON(ctx, c.submissionsURL+submissionsPath, submissionsPath, &subs); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for CIK %s: %w", padded, err)
	}

	recent := subs.Filings.Recent
	idx := -1
	for i, form := range recent.Form {
		if form == "13F-HR" || form == "13F-HR/A" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("no 13F-HR filing found for CIK %s", padded)
	}
	// The recent arrays are parallel; a truncated payload must fail, not panic.
	if idx >= len(recent.AccessionNumber) || idx >= len(recent.FilingDate) {
		return nil, fmt.Errorf("malformed submissions payload for CIK %s: recent filing arrays out of sync", padded)
	}

	accession := recent.AccessionNumber[idx]
	filedAt, err := time.Parse("2006-01-02", recent.FilingDate[idx])
	if err != nil {
		return nil, fmt.Errorf("invalid filing date %q on accession %s: %w", recent.FilingDate[idx], accession, err)
	}

	archiveDir := fmt.Sprintf("/Archives/edgar/data/%s/%s",
		strings.TrimLeft(padded, "0"), strings.ReplaceAll(accession, "-", ""))

	tableName, err := c.findInformationTable(ctx, archiveDir)
	if err != nil {
		return nil, fmt.Errorf("failed to locate information table for %s: %w", accession, err)
	}

	table, err := c.fetchInformationTable(ctx, archiveDir+"/"+tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch information table for %s: %w", accession, err)
	}

	positions, unresolved := c.aggregatePositions(table)

	filing := &models.InstitutionalFiling{
		CIK:         padded,
		CompanyName: subs.Name,
		FormType:    recent.Form[idx],
		AccessionNo: accession,
		FilingURL:   c.archivesURL + archiveDir + "/" + tableName,
		FiledAt:     filedAt,
		Positions:   positions,
		Unresolved:  unresolved,
	}

	c.logger.Info().
		Str("cik", padded).
		Str("accession", accession).
		Str("form", filing.FormType).
		Int("positions", len(positions)).
		Int("unresolved", unresolved).
		Msg("Fetched 13F filing")

	return filing, nil
}

// findInformationTable scans the filing directory for the information
// table document. The primary_doc.xml is the cover page, not the table.
func (c *Client) findInformationTable(ctx context.Context, archiveDir string) (string, error) {
	var index filingIndex
	indexPath := archiveDir + "/index.json"
	if err := c.getJSON(ctx, c.archivesURL+indexPath, indexPath, &index); err != nil {
		return "", err
	}

	for _, item := range index.Directory.Item {
		name := strings.ToLower(item.Name)
		if !strings.HasSuffix(name, ".xml") || name == "primary_doc.xml" {
			continue
		}
		if strings.Contains(name, "infotable") || strings.Contains(name, "information") || strings.Contains(name, "form13f") {
			return item.Name, nil
		}
	}

	// Some filers name the table arbitrarily; fall back to the only
	// non-primary XML in the directory.
	var candidates []string
	for _, item := range index.Directory.Item {
		name := strings.ToLower(item.Name)
		if strings.HasSuffix(name, ".xml") && name != "primary_doc.xml" {
			candidates = append(candidates, item.Name)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	return "", fmt.Errorf("no information table XML in filing directory (%d xml candidates)", len(candidates))
}

func (c *Client) fetchInformationTable(ctx context.Context, path string) (*informationTable, error) {
	body, err := c.getRaw(ctx, c.archivesURL+path, path)
	if err != nil {
		return nil, err
	}

	var table informationTable
	if err := xml.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("failed to parse information table: %w", err)
	}
	return &table, nil
}

// aggregatePositions sums shares and value across info-table entries of
// the same CUSIP (filers split positions across accounts), resolves each
// CUSIP to a ticker, and scales values from thousands to dollars.
// Non-share entries (principal-amount bonds) are skipped.
func (c *Client) aggregatePositions(table *informationTable) ([]models.RawPosition, int) {
	type agg struct {
		shares int64
		value  int64 // thousands
		issuer string
	}
	byCUSIP := make(map[string]*agg)

	for _, entry := range table.Entries {
		if !strings.EqualFold(entry.ShrsOrPrnAmt.SshPrnamtType, "SH") {
			continue
		}
		if entry.ShrsOrPrnAmt.SshPrnamt <= 0 {
			continue
		}
		cusip := strings.ToUpper(strings.TrimSpace(entry.CUSIP))
		a, ok := byCUSIP[cusip]
		if !ok {
			a = &agg{issuer: entry.NameOfIssuer}
			byCUSIP[cusip] = a
		}
		a.shares += entry.ShrsOrPrnAmt.SshPrnamt
		a.value += entry.Value
	}

	thousand := decimal.NewFromInt(1000)
	positions := make([]models.RawPosition, 0, len(byCUSIP))
	unresolved := 0
	for cusip, a := range byCUSIP {
		ticker := c.resolveTicker(cusip)
		if ticker == "" {
			unresolved++
			c.logger.Warn().
				Str("cusip", cusip).
				Str("issuer", a.issuer).
				Int64("shares", a.shares).
				Msg("Dropping position with unresolvable CUSIP")
			continue
		}
		positions = append(positions, models.RawPosition{
			Ticker: ticker,
			Shares: a.shares,
			Value:  decimal.NewFromInt(a.value).Mul(thousand),
		})
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].Ticker < positions[j].Ticker })
	return positions, unresolved
}

// resolveTicker maps a CUSIP to a ticker via config overrides first,
// then the built-in table. Empty string means unresolvable.
func (c *Client) resolveTicker(cusip string) string {
	if ticker, ok := c.overrides[cusip]; ok {
		return ticker
	}
	return cusipTickers[cusip]
}

// getJSON performs a rate-limited GET and decodes a JSON body.
func (c *Client) getJSON(ctx context.Context, url, endpoint string, result interface{}) error {
	body, err := c.getRaw(ctx, url, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getRaw performs a rate-limited GET request
func (c *Client) getRaw(ctx context.Context, url, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Only User-Agent is set explicitly; the transport negotiates gzip
	// and decompresses transparently. Setting Accept-Encoding by hand
	// would disable that and hand compressed bytes to the decoders.
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("url", url).Msg("EDGAR request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &models.APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   endpoint,
		}
	}

	return body, nil
}

// padCIK zero-pads a CIK to the 10 digits the submissions API expects.
func padCIK(cik string) string {
	digits := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if digits == "" {
		digits = "0"
	}
	return fmt.Sprintf("%010s", digits)
}

// Ensure Client implements FilingClient
var _ interfaces.FilingClient = (*Client)(nil)
