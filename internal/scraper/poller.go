package scraper

import (
	"context"
	"errors"
	"strings"
	"time"

	"rivals-tracker/internal/browser"
	"rivals-tracker/internal/config"
	"rivals-tracker/internal/constants"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

var ErrReadinessTimeout = errors.New("Could not load profile page after maximum attempts")

var errMarkerMissing = errors.New("readiness marker not found")

type ReadinessState int

const (
	StateNavigating ReadinessState = iota
	StatePolling
	StateReady
	StateTimedOut
)

func (s ReadinessState) String() string {
	switch s {
	case StateNavigating:
		return "navigating"
	case StatePolling:
		return "polling"
	case StateReady:
		return "ready"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

type Readiness struct {
	State    ReadinessState
	Attempts int
	// Marker is the substring that satisfied the check when State is StateReady.
	Marker string
}

type PollerConfig struct {
	ConsentSelector string
	ConsentTimeout  time.Duration
	ConsentSettle   time.Duration
	InitialDelay    time.Duration
	Attempts        int
	Interval        time.Duration
	Markers         []string
}

// Poller decides when a tracker profile page has rendered.
type Poller struct {
	cfg    PollerConfig
	logger zerolog.Logger
}

func NewPoller(cfg *config.Config, logger zerolog.Logger) *Poller {
	return NewPollerWith(PollerConfig{
		ConsentSelector: cfg.ConsentSelector,
		ConsentTimeout:  cfg.ConsentTimeout,
		ConsentSettle:   constants.ConsentSettleDelay,
		InitialDelay:    cfg.InitialDelay,
		Attempts:        cfg.PollAttempts,
		Interval:        cfg.PollInterval,
		Markers:         constants.ReadinessMarkers,
	}, logger)
}

func NewPollerWith(cfg PollerConfig, logger zerolog.Logger) *Poller {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Millisecond
	}
	return &Poller{cfg: cfg, logger: logger}
}

// Wait dismisses the consent dialog if one shows up, gives the client one
// initial render delay and then checks the page content for a marker up to
// Attempts times. A failed content read counts as a missed attempt.
func (p *Poller) Wait(ctx context.Context, page browser.Page) (Readiness, error) {
	r := Readiness{State: StateNavigating}

	p.dismissConsent(ctx, page)

	if err := sleep(ctx, p.cfg.InitialDelay); err != nil {
		return r, err
	}

	r.State = StatePolling
	backoff := retry.WithMaxRetries(uint64(p.cfg.Attempts-1), retry.NewConstant(p.cfg.Interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r.Attempts++
		logger := p.logger.With().Int("attempt", r.Attempts).Int("max_attempts", p.cfg.Attempts).Logger()

		content, err := page.Content(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read page content")
			return retry.RetryableError(err)
		}
		if marker, ok := findMarker(content, p.cfg.Markers); ok {
			r.Marker = marker
			return nil
		}
		logger.Debug().Msg("profile not rendered yet")
		return retry.RetryableError(errMarkerMissing)
	})

	switch {
	case err == nil:
		r.State = StateReady
		p.logger.Debug().Int("attempts", r.Attempts).Str("marker", r.Marker).Msg("profile page ready")
		return r, nil
	case ctx.Err() != nil:
		return r, ctx.Err()
	default:
		r.State = StateTimedOut
		return r, ErrReadinessTimeout
	}
}

func (p *Poller) dismissConsent(ctx context.Context, page browser.Page) {
	if p.cfg.ConsentSelector == "" {
		return
	}
	if err := page.WaitForSelector(ctx, p.cfg.ConsentSelector, p.cfg.ConsentTimeout); err != nil {
		p.logger.Debug().Msg("no consent dialog found")
		return
	}
	if err := page.Click(ctx, p.cfg.ConsentSelector); err != nil {
		p.logger.Debug().Err(err).Msg("failed to dismiss consent dialog")
		return
	}
	if err := sleep(ctx, p.cfg.ConsentSettle); err != nil {
		return
	}
	p.logger.Debug().Msg("consent dialog dismissed")
}

func findMarker(content string, markers []string) (string, bool) {
	for _, m := range markers {
		if strings.Contains(content, m) {
			return m, true
		}
	}
	return "", false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
