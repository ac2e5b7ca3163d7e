// Package browser reads quotes from pages rendered by a headless Chrome.
//
// One browser tab is started on first use and reused for every later fetch.
// If the browser cannot be started, every call returns an error wrapping
// quote.ErrSourceUnavailable.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"pricewatch/internal/quote"
)

// DefaultTimeout bounds the wait for the price element.
const DefaultTimeout = 10 * time.Second

type Config struct {
	Gold   quote.Page
	Stable quote.Page
	// Timeout bounds navigation plus the wait for the element.
	Timeout time.Duration
	// Headless runs Chrome without a window. The zero value is false, so
	// callers normally set it.
	Headless bool
	// ExecPath overrides Chrome discovery.
	ExecPath  string
	UserAgent string
}

// Source is a quote.Source backed by a single long-lived browser tab.
type Source struct {
	cfg Config

	once     sync.Once
	startErr error
	tab      context.Context
	cancel   func()

	// mu serializes use of the tab.
	mu sync.Mutex
}

func New(cfg Config) *Source {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Source{cfg: cfg}
}

func (s *Source) FetchGold(ctx context.Context) (string, error) {
	return s.fetch(ctx, s.cfg.Gold)
}

func (s *Source) FetchStable(ctx context.Context) (string, error) {
	return s.fetch(ctx, s.cfg.Stable)
}

// Close shuts the browser down. The Source must not be used afterwards.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Source) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.ExecPath))
	}
	if s.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.cfg.UserAgent))
	}
	return opts
}

func (s *Source) start() error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), s.allocatorOptions()...)
	tab, tabCancel := chromedp.NewContext(allocCtx)

	// An empty Run launches the browser and opens the tab.
	if err := chromedp.Run(tab); err != nil {
		tabCancel()
		allocCancel()
		return err
	}

	s.tab = tab
	s.cancel = func() {
		tabCancel()
		allocCancel()
	}
	return nil
}

func (s *Source) fetch(ctx context.Context, page quote.Page) (string, error) {
	s.once.Do(func() { s.startErr = s.start() })
	if s.startErr != nil {
		return "", fmt.Errorf("%w: starting browser: %v", quote.ErrSourceUnavailable, s.startErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return "", fmt.Errorf("%w: browser closed", quote.ErrSourceUnavailable)
	}

	// Derived from the tab so that timing out aborts this run only and the
	// tab survives for the next cycle.
	runCtx, cancel := context.WithTimeout(s.tab, s.cfg.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(page.URL),
		chromedp.WaitReady(page.Selector, chromedp.ByQuery),
		chromedp.Text(page.Selector, &text, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("loading %s: %w", page.URL, err)
	}
	return strings.TrimSpace(text), nil
}
