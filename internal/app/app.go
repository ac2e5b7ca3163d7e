// Package app builds the runtime pieces both binaries share from Config.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pricewatch/internal/config"
	"pricewatch/internal/httpx"
	"pricewatch/internal/monitor"
	"pricewatch/internal/pricefmt"
	"pricewatch/internal/quote"
	"pricewatch/internal/quote/browser"
	"pricewatch/internal/quote/htmlsource"
	"pricewatch/internal/quote/ratelimit"
)

// NewLogger returns a slog logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg config.Log) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewSource builds the configured quote source. The returned close function
// releases the browser, if any, and is always non-nil.
func NewSource(cfg config.Source) (quote.Source, func(), error) {
	timeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	gold := quote.Page{URL: cfg.Gold.URL, Selector: cfg.Gold.Selector}
	stable := quote.Page{URL: cfg.Stable.URL, Selector: cfg.Stable.Selector}

	var src quote.Source
	closeFn := func() {}
	switch cfg.Strategy {
	case config.StrategyBrowser:
		b := browser.New(browser.Config{
			Gold:      gold,
			Stable:    stable,
			Timeout:   timeout,
			Headless:  cfg.Headless,
			ExecPath:  cfg.ChromePath,
			UserAgent: cfg.UserAgent,
		})
		src, closeFn = b, b.Close

	case config.StrategyStatic:
		hc := httpx.New(timeout)
		if cfg.UserAgent != "" {
			hc.UserAgent = cfg.UserAgent
		}
		src = htmlsource.New(gold, stable,
			htmlsource.WithHTTPClient(hc),
			htmlsource.WithTimeout(timeout),
			htmlsource.WithHeader(http.Header{
				"Accept-Language": []string{"fa-IR,fa;q=0.9,en;q=0.5"},
			}),
		)

	default:
		return nil, closeFn, fmt.Errorf("unknown source strategy %q", cfg.Strategy)
	}

	if cfg.MinRequestIntervalMs > 0 {
		src = &ratelimit.MinInterval{S: src, Interval: time.Duration(cfg.MinRequestIntervalMs) * time.Millisecond}
	}
	return src, closeFn, nil
}

// MonitorOptions translates the monitor section into monitor options.
func MonitorOptions(cfg config.Monitor, logger *slog.Logger) ([]monitor.Option, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("timezone: %w", err)
		}
	}
	return []monitor.Option{
		monitor.WithLogger(logger),
		monitor.WithInterval(time.Duration(cfg.IntervalSec) * time.Second),
		monitor.WithLocation(loc),
		monitor.WithTitles(cfg.GoldTitle, cfg.StableTitle),
		monitor.WithFooter(cfg.Footer),
		monitor.WithFormatter(pricefmt.Formatter{Unit: cfg.Unit, Separator: cfg.Separator}),
	}, nil
}
