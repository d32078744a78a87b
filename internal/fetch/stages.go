package fetch

import (
	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/source"
)

// SymbolStage is one step of the symbol fallback chain
type SymbolStage struct {
	Source source.SymbolSource
	Accept func(contracts.SymbolRecord) bool
}

// MarketStage is one step of the market fallback chain
type MarketStage struct {
	Source source.MarketSource
	Accept func(contracts.MarketRecord) bool
}

// SymbolRequiresPrice accepts a record only when it carries a price
func SymbolRequiresPrice(r contracts.SymbolRecord) bool {
	return r.HasPrice()
}

// SymbolPriceOrFlow accepts a price or any foreign flow value
func SymbolPriceOrFlow(r contracts.SymbolRecord) bool {
	return r.HasPrice() || r.HasForeignFlow()
}

// MarketRequiresPrice accepts a market record only when it carries the index level
func MarketRequiresPrice(r contracts.MarketRecord) bool {
	return r.HasPrice()
}

// MarketPriceOrFlow accepts the index level or any foreign flow value
func MarketPriceOrFlow(r contracts.MarketRecord) bool {
	return r.HasPrice() || r.HasForeignFlow()
}

// SymbolMarketSource serves both entity kinds
type SymbolMarketSource interface {
	source.SymbolSource
	source.MarketSource
}

// Sources are the adapters available to the default chains. Nil entries are skipped.
type Sources struct {
	Primary   SymbolMarketSource
	Secondary SymbolMarketSource
	Scrapers  []source.MarketSource
	Warehouse source.SymbolSource
}

// DefaultStages builds the chains in priority order:
// primary (price required), secondary (price or flow), scrapers for the
// market (price or flow) and the warehouse for symbols (price required).
func DefaultStages(s Sources) ([]SymbolStage, []MarketStage) {
	var symbols []SymbolStage
	var market []MarketStage

	if s.Primary != nil {
		symbols = append(symbols, SymbolStage{Source: s.Primary, Accept: SymbolRequiresPrice})
		market = append(market, MarketStage{Source: s.Primary, Accept: MarketRequiresPrice})
	}
	if s.Secondary != nil {
		symbols = append(symbols, SymbolStage{Source: s.Secondary, Accept: SymbolPriceOrFlow})
		market = append(market, MarketStage{Source: s.Secondary, Accept: MarketPriceOrFlow})
	}
	for _, sc := range s.Scrapers {
		market = append(market, MarketStage{Source: sc, Accept: MarketPriceOrFlow})
	}
	if s.Warehouse != nil {
		symbols = append(symbols, SymbolStage{Source: s.Warehouse, Accept: SymbolRequiresPrice})
	}

	return symbols, market
}
