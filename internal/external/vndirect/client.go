package vndirect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// Name identifies this adapter in records and logs
const Name = "vndirect"

const maxBodyBytes = 2 << 20

// Client is the secondary source for foreign investor flow
// ⭐ SSOT: VNDirect finfo API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	enabled    bool
}

// NewClient creates a new VNDirect client. A disabled client fails every
// fetch with KindDisabled.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, enabled bool) *Client {
	if baseURL == "" {
		baseURL = "https://finfo-api.vndirect.com.vn"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", Name),
		baseURL:    strings.TrimRight(baseURL, "/"),
		enabled:    enabled,
	}
}

// Name returns the adapter name
func (c *Client) Name() string { return Name }

// Enabled reports whether the adapter is switched on
func (c *Client) Enabled() bool { return c.enabled }

// foreignsResponse is the envelope of /v4/foreigns
type foreignsResponse struct {
	Data        []map[string]any `json:"data"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
}

// FetchSymbol fetches the latest foreign flow row for a ticker
func (c *Client) FetchSymbol(ctx context.Context, symbol string) (source.Raw, error) {
	return c.fetchLatest(ctx, symbol)
}

// FetchMarket fetches the latest market-wide foreign totals (code:VNINDEX)
func (c *Client) FetchMarket(ctx context.Context, index string) (source.Raw, error) {
	return c.fetchLatest(ctx, index)
}

// FetchForeigns fetches up to size foreign flow rows for code, newest first
func (c *Client) FetchForeigns(ctx context.Context, code string, size int) ([]map[string]any, error) {
	if !c.enabled {
		return nil, source.Errorf(Name, source.KindDisabled, "secondary source disabled")
	}

	params := url.Values{}
	params.Set("q", "code:"+strings.ToUpper(code))
	params.Set("sort", "tradingDate")
	params.Set("size", fmt.Sprintf("%d", size))
	fullURL := fmt.Sprintf("%s/v4/foreigns?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, source.NewError(Name, source.KindNetwork, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, source.Errorf(Name, source.KindStatus, "unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, source.NewError(Name, source.KindNetwork, fmt.Errorf("failed to read response body: %w", err))
	}

	var out foreignsResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, source.NewError(Name, source.KindDecode, fmt.Errorf("decode foreigns: %w", err))
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"count": len(out.Data),
	}).Debug("Fetched foreign flow")

	return out.Data, nil
}

func (c *Client) fetchLatest(ctx context.Context, code string) (source.Raw, error) {
	rows, err := c.FetchForeigns(ctx, code, 1)
	if err != nil {
		return source.Raw{}, err
	}
	if len(rows) == 0 {
		return source.Raw{}, source.Errorf(Name, source.KindEmpty, "no foreign flow rows for %s", code)
	}

	// the last row is the one the report uses
	return source.Raw{Payload: payload.Mapping(rows[len(rows)-1])}, nil
}
