package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/httputil"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

const maxBodyBytes = 4 << 20

var (
	indexPattern   = regexp.MustCompile(`(?i)VN[- ]?Index[:\s]*([0-9.,]+)`)
	foreignPattern = regexp.MustCompile(`(?i)(Khối ngoại|Nước ngoài|NN).*?Mua[:\s]*([0-9.,]+).*?Bán[:\s]*([0-9.,]+)`)
	numberPattern  = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

// Site describes one scraped market page family
type Site struct {
	Name    string
	BaseURL string
	Paths   []string // tried in order
}

// Vietstock returns the vietstock.vn market pages
func Vietstock(baseURL string) Site {
	if baseURL == "" {
		baseURL = "https://finance.vietstock.vn"
	}
	return Site{Name: "vietstock", BaseURL: baseURL, Paths: []string{"/ket-qua-giao-dich", "/"}}
}

// Cafef returns the cafef.vn market pages
func Cafef(baseURL string) Site {
	if baseURL == "" {
		baseURL = "https://cafef.vn"
	}
	return Site{Name: "cafef", BaseURL: baseURL, Paths: []string{"/du-lieu.chn", "/du-lieu/lich-su-giao-dich-vnindex-1.chn"}}
}

// Scraper is the last-resort market source reading public HTML pages.
// It only serves market-wide data; there is no per-ticker scrape.
// ⭐ SSOT: HTML 스크래핑은 이 구조체에서만
type Scraper struct {
	site       Site
	httpClient *httputil.Client
	logger     *logger.Logger
}

// ScrapedIndex is the only index the scraped pages report
const ScrapedIndex = "VNINDEX"

// NewScraper creates a scraper for site
func NewScraper(site Site, httpClient *httputil.Client, log *logger.Logger) *Scraper {
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return &Scraper{
		site:       site,
		httpClient: httpClient,
		logger:     log.WithField("source", site.Name),
	}
}

// Name returns the site name
func (s *Scraper) Name() string { return s.site.Name }

// FetchMarket scrapes the index level and foreign totals, trying each page in turn.
// The pages only show the VN-Index, so any other index is unsupported.
func (s *Scraper) FetchMarket(ctx context.Context, index string) (source.Raw, error) {
	if !strings.EqualFold(index, ScrapedIndex) {
		return source.Raw{}, source.Errorf(s.site.Name, source.KindUnsupported, "index %s is not on the page", index)
	}

	var lastErr error = source.Errorf(s.site.Name, source.KindEmpty, "no pages configured")

	for _, path := range s.site.Paths {
		if ctx.Err() != nil {
			return source.Raw{}, source.NewError(s.site.Name, source.KindNetwork, ctx.Err())
		}

		text, err := s.fetchText(ctx, s.site.BaseURL+path)
		if err != nil {
			lastErr = err
			s.logger.WithFields(map[string]interface{}{
				"path": path,
				"kind": source.KindOf(err),
			}).Debug("Scrape page failed")
			continue
		}

		m := Parse(text)
		if m.Len() > 0 {
			s.logger.WithFields(map[string]interface{}{
				"path":   path,
				"fields": m.Len(),
			}).Debug("Scraped market page")
			return source.Raw{Payload: m}, nil
		}
		lastErr = source.Errorf(s.site.Name, source.KindEmpty, "no market figures on %s", path)
	}

	return source.Raw{}, lastErr
}

// fetchText downloads a page and returns its visible text with whitespace collapsed
func (s *Scraper) fetchText(ctx context.Context, fullURL string) (string, error) {
	resp, err := s.httpClient.Get(ctx, fullURL)
	if err != nil {
		return "", source.NewError(s.site.Name, source.KindNetwork, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", source.Errorf(s.site.Name, source.KindStatus, "unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", source.NewError(s.site.Name, source.KindDecode, fmt.Errorf("parse HTML: %w", err))
	}

	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// Parse extracts {index, fbuy, fsell} from page text. Missing figures are omitted.
func Parse(text string) payload.Mapping {
	m := payload.Mapping{}

	if match := indexPattern.FindStringSubmatch(text); match != nil {
		if v, ok := parseNumber(match[1]); ok {
			m["index"] = v
		}
	}

	if match := foreignPattern.FindStringSubmatch(text); match != nil {
		if v, ok := parseNumber(match[2]); ok {
			m["fbuy"] = v
		}
		if v, ok := parseNumber(match[3]); ok {
			m["fsell"] = v
		}
	}

	return m
}

// parseNumber drops thousands commas and reads the leading decimal number
// ("1,234.56" -> 1234.56, "1.234.567" -> 1.234)
func parseNumber(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "\u202f", "").Replace(s)
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
