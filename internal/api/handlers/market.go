package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/fetch"
	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9^.]{1,12}$`)

// Fetcher is the part of the orchestrator the API reads from
type Fetcher interface {
	Market(ctx context.Context) contracts.MarketRecord
	Symbol(ctx context.Context, code string) contracts.SymbolRecord
	Symbols(ctx context.Context, codes []string) []contracts.SymbolRecord
	Snapshot(ctx context.Context, codes []string) fetch.Snapshot
}

// ReportBuilder renders a snapshot as report text
type ReportBuilder interface {
	Build(snap fetch.Snapshot) string
}

// MarketHandler handles market and watchlist endpoints
// ⭐ SSOT: market API 핸들러는 이 구조체에서만
type MarketHandler struct {
	fetcher   Fetcher
	builder   ReportBuilder
	watchlist []string
	logger    *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(fetcher Fetcher, builder ReportBuilder, watchlist []string, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		fetcher:   fetcher,
		builder:   builder,
		watchlist: watchlist,
		logger:    log,
	}
}

// GetMarket returns the market record
// GET /api/market
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.fetcher.Market(r.Context()))
}

// ListSymbols returns records for the whole watchlist in watchlist order
// GET /api/symbols
func (h *MarketHandler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	recs := h.fetcher.Symbols(r.Context(), h.watchlist)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": recs,
		"count":   len(recs),
	})
}

// GetSymbol returns the record of a single ticker (not limited to the watchlist)
// GET /api/symbols/{code}
func (h *MarketHandler) GetSymbol(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"]))
	if !symbolPattern.MatchString(code) {
		respondError(w, http.StatusBadRequest, "Invalid symbol")
		return
	}

	rec := h.fetcher.Symbol(r.Context(), code)
	if rec.Source == contracts.SourceNone {
		h.logger.WithField("symbol", code).Debug("No data for symbol")
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetReport returns the rendered report text
// GET /api/report
func (h *MarketHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	snap := h.fetcher.Snapshot(r.Context(), h.watchlist)
	respondText(w, http.StatusOK, h.builder.Build(snap))
}
