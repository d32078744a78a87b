package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alvic-maker/Telegram-bot-update1/internal/contracts"
	"github.com/Alvic-maker/Telegram-bot-update1/internal/payload"
)

// Raw is what an adapter returns before normalization.
// Series is optional; when present the indicator engine enriches the record from it.
type Raw struct {
	Payload payload.Payload
	Series  contracts.PriceSeries
}

// SymbolSource fetches per-ticker data
type SymbolSource interface {
	Name() string
	FetchSymbol(ctx context.Context, symbol string) (Raw, error)
}

// MarketSource fetches market-wide data for an index identifier
type MarketSource interface {
	Name() string
	FetchMarket(ctx context.Context, index string) (Raw, error)
}

// Kind classifies adapter failures
type Kind string

const (
	KindNetwork     Kind = "network"     // transport error or timeout
	KindStatus      Kind = "status"      // non-2xx response
	KindDecode      Kind = "decode"      // body could not be parsed
	KindEmpty       Kind = "empty"       // parsed fine but carried no data
	KindUnsupported Kind = "unsupported" // adapter cannot serve this entity
	KindDisabled    Kind = "disabled"    // adapter switched off by configuration
	KindUnknown     Kind = "unknown"
)

// FetchError is the only error type adapters return
type FetchError struct {
	Source string
	Kind   Kind
	Err    error
}

// Error implements error
func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewError wraps err as a FetchError
func NewError(source string, kind Kind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// Errorf builds a FetchError with a formatted cause
func Errorf(source string, kind Kind, format string, args ...interface{}) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the failure kind of err, or KindUnknown when err is not a FetchError
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Quiet reports whether a failure is expected and should not be logged above debug
func Quiet(err error) bool {
	k := KindOf(err)
	return k == KindUnsupported || k == KindDisabled
}
