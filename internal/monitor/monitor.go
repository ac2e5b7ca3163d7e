// Package monitor runs the fetch, format, notify, sleep cycle.
//
// A Monitor keeps the raw text of the last successfully fetched quotes and
// uses it as the comparison baseline of the next cycle. Cycles never overlap.
// A failed fetch skips the rest of its cycle and leaves the baseline alone; a
// failed delivery is logged and the baseline still moves forward.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pricewatch/internal/jalali"
	"pricewatch/internal/notify"
	"pricewatch/internal/pricefmt"
	"pricewatch/internal/quote"
)

// Defaults for the original channel.
const (
	DefaultInterval    = 300 * time.Second
	DefaultGoldTitle   = "قیمت لحظه‌ای طلا:"
	DefaultStableTitle = "قیمت تتر:"
	DefaultFooter      = "میلی‌گلد مرجع قیمت طلا"
)

// Phase is the monitor's position in its cycle.
type Phase int32

const (
	Idle Phase = iota
	Fetching
	Formatting
	Notifying
	Sleeping
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Formatting:
		return "formatting"
	case Notifying:
		return "notifying"
	case Sleeping:
		return "sleeping"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// State is the raw quote text seen at the end of the last successful fetch.
// A nil field means nothing has been observed yet.
type State struct {
	Gold   *string
	Stable *string
}

// Status is a lock-free summary for health reporting. LastSuccess is the
// time of the last cycle whose message was delivered.
type Status struct {
	Phase       Phase
	Cycles      int64
	Failures    int64
	LastSuccess time.Time
}

// Monitor owns State. It is driven by a single goroutine.
type Monitor struct {
	source   quote.Source
	notifier notify.Notifier
	format   pricefmt.Formatter
	logger   *slog.Logger

	interval    time.Duration
	goldTitle   string
	stableTitle string
	footer      string
	location    *time.Location

	now   func() time.Time
	date  func(time.Time) string
	sleep func(ctx context.Context, d time.Duration) error

	state State

	phase       atomic.Int32
	cycles      atomic.Int64
	failures    atomic.Int64
	lastSuccess atomic.Int64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the pause between cycles.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFormatter sets the unit label and digit separator.
func WithFormatter(f pricefmt.Formatter) Option {
	return func(m *Monitor) { m.format = f }
}

// WithTitles sets the line titles. Empty values keep the defaults.
func WithTitles(gold, stable string) Option {
	return func(m *Monitor) {
		if gold != "" {
			m.goldTitle = gold
		}
		if stable != "" {
			m.stableTitle = stable
		}
	}
}

// WithFooter sets the bold line closing every message.
func WithFooter(footer string) Option {
	return func(m *Monitor) { m.footer = footer }
}

// WithLocation sets the zone for the time and date in messages.
func WithLocation(loc *time.Location) Option {
	return func(m *Monitor) {
		if loc != nil {
			m.location = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithDateFormatter replaces the calendar used for the message date.
func WithDateFormatter(date func(time.Time) string) Option {
	return func(m *Monitor) { m.date = date }
}

// WithSleep replaces the wait between cycles.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(m *Monitor) { m.sleep = sleep }
}

// New creates a Monitor in the Idle phase with no prior observations.
func New(source quote.Source, notifier notify.Notifier, options ...Option) *Monitor {
	var m = &Monitor{
		source:      source,
		notifier:    notifier,
		logger:      slog.Default(),
		interval:    DefaultInterval,
		goldTitle:   DefaultGoldTitle,
		stableTitle: DefaultStableTitle,
		footer:      DefaultFooter,
		location:    time.Local,
		now:         time.Now,
		date:        jalali.Date,
		sleep:       sleepContext,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// State returns a copy of the comparison baseline.
func (m *Monitor) State() State {
	s := State{}
	if m.state.Gold != nil {
		g := *m.state.Gold
		s.Gold = &g
	}
	if m.state.Stable != nil {
		st := *m.state.Stable
		s.Stable = &st
	}
	return s
}

// Status is safe to call from any goroutine.
func (m *Monitor) Status() Status {
	s := Status{
		Phase:    Phase(m.phase.Load()),
		Cycles:   m.cycles.Load(),
		Failures: m.failures.Load(),
	}
	if ns := m.lastSuccess.Load(); ns != 0 {
		s.LastSuccess = time.Unix(0, ns)
	}
	return s
}

// Run repeats cycles until ctx is done, waiting the interval after each one
// whether it succeeded or not. It returns nil on cancellation and an error
// only when the quote source is permanently unavailable.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started", slog.Duration("interval", m.interval))
	for {
		if err := m.RunCycle(ctx); err != nil {
			if errors.Is(err, quote.ErrSourceUnavailable) {
				m.logger.Error("quote source unavailable", slog.String("error", err.Error()))
				return err
			}
			if ctx.Err() != nil {
				break
			}
		}

		m.setPhase(Sleeping)
		if err := m.sleep(ctx, m.interval); err != nil {
			break
		}
	}
	m.logger.Info("monitor stopped", slog.Int64("cycles", m.cycles.Load()))
	return nil
}

// RunCycle performs one fetch, format and notify pass.
//
// A fetch failure is returned as a *quote.FetchError and leaves State
// untouched. A delivery failure is returned after State has been updated.
func (m *Monitor) RunCycle(ctx context.Context) error {
	log := m.logger.With(slog.String("cycle_id", uuid.NewString()))
	defer m.cycles.Add(1)

	m.setPhase(Fetching)
	gold, err := m.fetch(ctx, quote.Gold)
	if err != nil {
		m.failures.Add(1)
		log.Error("fetch failed", slog.String("instrument", string(quote.Gold)), slog.String("error", err.Error()))
		return err
	}
	stable, err := m.fetch(ctx, quote.Stable)
	if err != nil {
		m.failures.Add(1)
		log.Error("fetch failed", slog.String("instrument", string(quote.Stable)), slog.String("error", err.Error()))
		return err
	}

	m.setPhase(Formatting)
	lines := [2]string{
		m.format.Line(m.goldTitle, gold, m.state.Gold, false),
		m.format.Line(m.stableTitle, stable, m.state.Stable, true),
	}
	now := m.now().In(m.location)
	message := Compose(lines[:], now, m.date(now), m.footer)

	m.setPhase(Notifying)
	var deliveryErr error
	if err := m.notifier.Send(ctx, message); err != nil {
		m.failures.Add(1)
		deliveryErr = fmt.Errorf("notify: %w", err)
		log.Error("delivery failed", slog.String("error", err.Error()))
	}

	m.state.Gold = &gold
	m.state.Stable = &stable

	if deliveryErr != nil {
		return deliveryErr
	}
	m.lastSuccess.Store(m.now().UnixNano())
	log.Info("quotes sent", slog.String("gold", gold), slog.String("stable", stable))
	return nil
}

func (m *Monitor) fetch(ctx context.Context, inst quote.Instrument) (string, error) {
	text, err := quote.Fetch(ctx, m.source, inst)
	if err != nil {
		return "", &quote.FetchError{Instrument: inst, Err: err}
	}
	return text, nil
}

func (m *Monitor) setPhase(p Phase) {
	m.phase.Store(int32(p))
	m.logger.Debug("phase", slog.String("phase", p.String()))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
