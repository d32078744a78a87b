package foreignflow

import (
	"math"
	"strings"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
)

// Key vocabularies, matched as substrings of the lower-cased key
var (
	buyTokens  = []string{"buy", "mua", "foreignbuy", "nn_mua", "fbuy", "muavao"}
	sellTokens = []string{"sell", "ban", "bán", "foreignsell", "nn_ban", "fsell", "banra"}
	netTokens  = []string{"net", "ròng", "rong"}
)

// Extract finds foreign buy and sell values in an arbitrary payload.
// ⭐ SSOT: foreign flow key sniffing lives here only
//
// The first key (in payload iteration order) containing a buy token with a
// numeric value populates buy; likewise for sell. When neither side is found a
// net key is used instead: net >= 0 maps to (net, 0) and net < 0 to (0, |net|).
// That split is an approximation kept for report compatibility, not a true
// decomposition. Nothing found yields (nil, nil).
func Extract(p payload.Payload) (buy, sell *float64) {
	defer func() {
		if r := recover(); r != nil {
			buy, sell = nil, nil
		}
	}()

	if p == nil {
		return nil, nil
	}

	p.Range(func(key string, value any) bool {
		k := strings.ToLower(key)
		switch {
		case buy == nil && matches(k, buyTokens):
			if v, ok := number(value); ok {
				buy = &v
			}
		case sell == nil && matches(k, sellTokens) && !matches(k, buyTokens):
			if v, ok := number(value); ok {
				sell = &v
			}
		}
		return buy == nil || sell == nil
	})

	if buy != nil || sell != nil {
		return buy, sell
	}

	return fromNet(p)
}

// fromNet applies the net-flow fallback
func fromNet(p payload.Payload) (buy, sell *float64) {
	p.Range(func(key string, value any) bool {
		if !matches(strings.ToLower(key), netTokens) {
			return true
		}
		net, ok := number(value)
		if !ok {
			return true
		}
		zero := 0.0
		if net >= 0 {
			buy, sell = &net, &zero
		} else {
			abs := math.Abs(net)
			buy, sell = &zero, &abs
		}
		return false
	})
	return buy, sell
}

func number(v any) (float64, bool) {
	f, ok := payload.Number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func matches(key string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(key, t) {
			return true
		}
	}
	return false
}
