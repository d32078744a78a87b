package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// Name identifies this adapter in records and logs
const Name = "yahoo"

// HistoryWindows are the history ranges (days) tried in order until one returns data.
// Shorter windows tolerate new listings and truncated vendor history.
var HistoryWindows = []int{365, 240, 120, 60, 30, 10, 5, 2}

// exchangeSuffix maps HOSE/HNX tickers to Yahoo symbols (MBB -> MBB.VN)
const exchangeSuffix = ".VN"

// indexTickers maps local index identifiers to Yahoo index symbols
var indexTickers = map[string]string{
	"VNINDEX": "^VNINDEX",
	"VN30":    "^VN30",
}

const maxBodyBytes = 4 << 20

// Client is the primary quote and history source
// ⭐ SSOT: Yahoo chart API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	windows    []int
}

// NewClient creates a new Yahoo chart client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", Name),
		baseURL:    strings.TrimRight(baseURL, "/"),
		windows:    HistoryWindows,
	}
}

// WithWindows overrides the history window sequence
func (c *Client) WithWindows(days ...int) *Client {
	c.windows = days
	return c
}

// Name returns the adapter name
func (c *Client) Name() string { return Name }

// Ticker maps a local symbol or index identifier to its Yahoo symbol
func Ticker(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if t, ok := indexTickers[s]; ok {
		return t
	}
	if strings.HasPrefix(s, "^") || strings.Contains(s, ".") {
		return s
	}
	return s + exchangeSuffix
}

// get fetches a URL and classifies failures as FetchErrors
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, source.NewError(Name, source.KindNetwork, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, source.NewError(Name, source.KindNetwork, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return body, source.Errorf(Name, source.KindStatus, "unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// retryable reports whether a shorter window may still succeed
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, context.Canceled)
}
