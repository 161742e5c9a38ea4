// Package fmp implements the stock tools backed by the Financial Modeling
// Prep API: a latest-quote tool (/quote) and a historical end-of-day tool
// (/historical-price-full). Provider responses are normalized into tagged
// core.ToolResult payloads.
package fmp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/internal/util"
	"github.com/hupe1980/agentgate/tool"
)

const providerName = "fmp"

// DefaultBaseURL is the FMP API v3 root.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Options configures the FMP client shared by both tools.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Now     func() time.Time // injectable clock for tests
}

// Client issues requests against the FMP API. Both tools share one instance
// so connection pooling behaves across a process.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewClient constructs an FMP client.
func NewClient(apiKey string, optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
		Now:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	httpClient := opts.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{apiKey: apiKey, baseURL: opts.BaseURL, client: httpClient, now: opts.Now}
}

// get performs a single GET against path with the api key attached and
// decodes the body into out. Non-2xx statuses are mapped to ProviderError
// after an attempt to surface FMP's "Error Message" payload.
func (c *Client) get(toolCtx *core.ToolContext, path string, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(toolCtx.Context(), http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &core.ProviderError{Provider: providerName, Message: "building request failed", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &core.ProviderError{Provider: providerName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message := "unexpected status"
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			message = "invalid stock API key"
		case http.StatusNotFound:
			message = "symbol not found or no data for range"
		}
		return &core.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &core.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    "unparseable response body",
			Err:        err,
		}
	}

	return nil
}

// QuoteArgs is the argument schema for the latest-quote tool.
type QuoteArgs struct {
	Symbol string `json:"symbol" description:"Stock ticker symbol, e.g. AAPL"`
}

// QuoteTool fetches the latest OHLCV snapshot for a ticker symbol.
type QuoteTool struct {
	client *Client
}

// NewQuoteTool constructs the quote tool on a shared client.
func NewQuoteTool(client *Client) *QuoteTool { return &QuoteTool{client: client} }

// Name returns the unique tool name used in function declarations.
func (t *QuoteTool) Name() string { return "fetch_stock_quote" }

// Description returns the description exposed to models.
func (t *QuoteTool) Description() string {
	return "Fetch the latest price, day high/low and volume for a stock ticker symbol"
}

// Parameters returns the JSON schema describing accepted arguments.
func (t *QuoteTool) Parameters() map[string]any { return util.CreateSchema(QuoteArgs{}) }

// Kind tags the payload as a latest-quote snapshot.
func (t *QuoteTool) Kind() core.ToolKind { return core.ToolKindStockQuote }

// quote mirrors the subset of the FMP /quote response the tool maps.
type quote struct {
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
	DayHigh float64 `json:"dayHigh"`
	DayLow  float64 `json:"dayLow"`
	Volume  int64   `json:"volume"`
}

// Call fetches the latest quote for the requested symbol.
func (t *QuoteTool) Call(toolCtx *core.ToolContext, args map[string]any) (*core.ToolResult, error) {
	symbol, ok := tool.StringArg(args, "symbol")
	if !ok {
		return nil, &core.ValidationError{Field: "symbol", Message: "a ticker symbol is required"}
	}
	symbol = strings.ToUpper(symbol)

	var quotes []quote
	if err := t.client.get(toolCtx, "/quote/"+url.PathEscape(symbol), url.Values{}, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, &core.ProviderError{
			Provider: providerName,
			Message:  fmt.Sprintf("no quote data for symbol %q", symbol),
		}
	}

	q := quotes[0]
	return &core.ToolResult{
		Kind: core.ToolKindStockQuote,
		Data: map[string]any{
			"symbol":       q.Symbol,
			"latest_price": q.Price,
			"high":         q.DayHigh,
			"low":          q.DayLow,
			"volume":       q.Volume,
			"timestamp":    t.client.now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// HistoricalArgs is the argument schema for the historical tool.
type HistoricalArgs struct {
	Symbol    string `json:"symbol" description:"Stock ticker symbol, e.g. AAPL"`
	StartDate string `json:"start_date" description:"Start of the range, YYYY-MM-DD"`
	EndDate   string `json:"end_date,omitempty" description:"End of the range, YYYY-MM-DD; defaults to today"`
}

// HistoricalTool fetches end-of-day OHLCV records for a symbol and date range.
type HistoricalTool struct {
	client *Client
}

// NewHistoricalTool constructs the historical tool on a shared client.
func NewHistoricalTool(client *Client) *HistoricalTool { return &HistoricalTool{client: client} }

// Name returns the unique tool name used in function declarations.
func (t *HistoricalTool) Name() string { return "fetch_historical_stock" }

// Description returns the description exposed to models.
func (t *HistoricalTool) Description() string {
	return "Fetch historical end-of-day open/high/low/close/volume records for a stock ticker symbol between two dates"
}

// Parameters returns the JSON schema describing accepted arguments.
func (t *HistoricalTool) Parameters() map[string]any { return util.CreateSchema(HistoricalArgs{}) }

// Kind tags the payload as a historical record sequence.
func (t *HistoricalTool) Kind() core.ToolKind { return core.ToolKindHistoricalStock }

// historicalResponse mirrors the FMP /historical-price-full envelope.
type historicalResponse struct {
	Symbol     string             `json:"symbol"`
	Historical []historicalRecord `json:"historical"`
}

type historicalRecord struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

const dateLayout = "2006-01-02"

// Call fetches historical records, sorted by date ascending.
func (t *HistoricalTool) Call(toolCtx *core.ToolContext, args map[string]any) (*core.ToolResult, error) {
	symbol, ok := tool.StringArg(args, "symbol")
	if !ok {
		return nil, &core.ValidationError{Field: "symbol", Message: "a ticker symbol is required"}
	}
	symbol = strings.ToUpper(symbol)

	startDate, ok := tool.StringArg(args, "start_date")
	if !ok {
		return nil, &core.ValidationError{Field: "start_date", Message: "a start date (YYYY-MM-DD) is required"}
	}
	endDate, hasEnd := tool.StringArg(args, "end_date")
	if !hasEnd {
		endDate = t.client.now().UTC().Format(dateLayout)
	}

	for field, value := range map[string]string{"start_date": startDate, "end_date": endDate} {
		if _, err := time.Parse(dateLayout, value); err != nil {
			return nil, &core.ValidationError{Field: field, Value: value, Message: "invalid date, use YYYY-MM-DD"}
		}
	}

	params := url.Values{}
	params.Set("from", startDate)
	params.Set("to", endDate)

	var res historicalResponse
	if err := t.client.get(toolCtx, "/historical-price-full/"+url.PathEscape(symbol), params, &res); err != nil {
		return nil, err
	}
	if len(res.Historical) == 0 {
		return nil, &core.ProviderError{
			Provider: providerName,
			Message:  fmt.Sprintf("no historical data for symbol %q between %s and %s", symbol, startDate, endDate),
		}
	}

	records := res.Historical
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	historical := make([]map[string]any, len(records))
	for i, r := range records {
		historical[i] = map[string]any{
			"date":   r.Date,
			"open":   r.Open,
			"high":   r.High,
			"low":    r.Low,
			"close":  r.Close,
			"volume": r.Volume,
		}
	}

	return &core.ToolResult{
		Kind: core.ToolKindHistoricalStock,
		Data: map[string]any{
			"symbol":     symbol,
			"historical": historical,
		},
	}, nil
}
