package quote

import (
	"context"
	"errors"
	"fmt"
)

// Instrument names one of the two tracked assets.
type Instrument string

const (
	Gold   Instrument = "gold"
	Stable Instrument = "stable"
)

// Page locates the price element of an instrument on a web page.
type Page struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
}

// Source supplies the raw visible text of each instrument's price element.
// Implementations are called sequentially and never concurrently.
//
//go:generate mockgen -package=monitor_test -destination=../monitor/mock_source_test.go -source=quote.go Source
type Source interface {
	FetchGold(ctx context.Context) (string, error)
	FetchStable(ctx context.Context) (string, error)
}

// Fetch dispatches to the Source method for inst.
func Fetch(ctx context.Context, s Source, inst Instrument) (string, error) {
	switch inst {
	case Gold:
		return s.FetchGold(ctx)
	case Stable:
		return s.FetchStable(ctx)
	default:
		return "", fmt.Errorf("unknown instrument %q", inst)
	}
}

// ErrSourceUnavailable marks a failure to acquire the long-lived resource
// behind a Source, such as starting the browser. It is not recoverable.
var ErrSourceUnavailable = errors.New("quote source unavailable")

// FetchError reports that a quote could not be obtained within its bound.
type FetchError struct {
	Instrument Instrument
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s quote: %v", e.Instrument, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
