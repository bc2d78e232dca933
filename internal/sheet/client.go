package sheet

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Row is the wire shape of one spreadsheet row. Field names match the
// columns the spreadsheet has always carried.
type Row struct {
	Date          string  `json:"date"`
	WinLose       int     `json:"win_lose"`
	Gain          float64 `json:"gain"`
	WinningStreak int     `json:"winning_streak"`
	LosingStreak  int     `json:"losing_streak"`
	WinRate       float64 `json:"win_rate"`
	TradingState  string  `json:"trading_state"`
}

// rowTimeLayout matches the date cells written by every revision.
const rowTimeLayout = "01/02/2006 15:04"

// RowFromRecord converts a trade record to its spreadsheet row.
func RowFromRecord(r models.TradeRecord) Row {
	winLose := 0
	if r.Outcome {
		winLose = 1
	}
	return Row{
		Date:          r.RecordedAt.Format(rowTimeLayout),
		WinLose:       winLose,
		Gain:          r.Gain,
		WinningStreak: r.WinningStreak,
		LosingStreak:  r.LosingStreak,
		WinRate:       r.WinRate,
		TradingState:  r.State,
	}
}

// ClientInterface defines the interface for the sheets-bridge API client.
type ClientInterface interface {
	AppendRow(ctx context.Context, row Row) error
	FetchRows(ctx context.Context) ([]Row, error)
}

// Client is a client for the sheets-bridge REST API that mirrors the trade
// history into a spreadsheet. It implements ClientInterface.
type Client struct {
	client    *resty.Client
	sheetName string
	token     string
	logger    *zap.Logger
	limiter   *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new sheets-bridge API client.
func NewClient(cfg *config.Sheet, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.Endpoint)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:    client,
		sheetName: cfg.SheetName,
		token:     cfg.Token,
		logger:    logger,
		limiter:   limiter,
	}
}

// AppendRow appends one row to the configured sheet.
func (c *Client) AppendRow(ctx context.Context, row Row) error {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("X-API-Token", c.token).
		SetBody(row)

	url := fmt.Sprintf("/v1/sheets/%s/rows", c.sheetName)
	if _, err := c.doRequest(ctx, http.MethodPost, url, req); err != nil {
		c.logger.Error("Failed to append row to sheet", zap.Error(err))
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// FetchRows fetches the full row history from the configured sheet.
func (c *Client) FetchRows(ctx context.Context) ([]Row, error) {
	type rowsResponse struct {
		Rows []Row `json:"rows"`
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("X-API-Token", c.token).
		SetResult(&rowsResponse{})

	url := fmt.Sprintf("/v1/sheets/%s/rows", c.sheetName)
	resp, err := c.doRequest(ctx, http.MethodGet, url, req)
	if err != nil {
		c.logger.Error("Failed to fetch rows from sheet", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch rows: %w", err)
	}

	result := resp.Result().(*rowsResponse)
	return result.Rows, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		retryAfter := time.Duration(-1)

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, parseErr := strconv.Atoi(retryAfterHeader); parseErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			}
		} else if err != nil {
			// Network-level errors are retryable too
			shouldRetry = true
		}

		if !shouldRetry || i == maxRetries-1 {
			break
		}

		if retryAfter < 0 {
			// Exponential backoff when the server gave no hint
			retryAfter = time.Duration(1<<uint(i)) * time.Second
		}

		c.logger.Warn("Request failed, retrying",
			zap.String("url", url),
			zap.Duration("retry_after", retryAfter),
			zap.Int("attempt", i+1),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode(), resp.String())
}
