package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rivals-tracker/internal/config"
	"rivals-tracker/internal/constants"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

type ChromeLauncher struct {
	remoteURL string
	opts      []chromedp.ExecAllocatorOption
	logger    zerolog.Logger
}

func NewChromeLauncher(cfg *config.Config, logger zerolog.Logger) *ChromeLauncher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	return &ChromeLauncher{
		remoteURL: cfg.ChromeURL,
		opts:      opts,
		logger:    logger,
	}
}

// Acquire starts a dedicated browser (or, with a remote allocator, a dedicated
// tab) and returns once it is ready to navigate.
func (l *ChromeLauncher) Acquire(ctx context.Context) (Session, error) {
	id := newSessionID()
	logger := l.logger.With().Str("session_id", id).Logger()

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if l.remoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), l.remoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), l.opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug().Msgf(format, args...)
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Warn().Msgf(format, args...)
		}),
	)

	s := &chromeSession{
		id:            id,
		ctx:           browserCtx,
		cancel:        browserCancel,
		allocCancel:   allocCancel,
		sharedBrowser: l.remoteURL != "",
		logger:        logger,
	}

	if err := ctx.Err(); err != nil {
		s.Close()
		return nil, err
	}
	// the first Run allocates the browser and its tab; it must use the
	// session context itself or a derived cancel would kill the browser
	if err := chromedp.Run(browserCtx); err != nil {
		if closeErr := s.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to release browser after start failure")
		}
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug().Bool("remote", s.sharedBrowser).Msg("browser session acquired")
	return s, nil
}

type chromeSession struct {
	id            string
	ctx           context.Context
	cancel        context.CancelFunc
	allocCancel   context.CancelFunc
	sharedBrowser bool
	logger        zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (s *chromeSession) ID() string { return s.id }

func (s *chromeSession) Page() Page { return s }

// run executes actions on the session's tab while honoring the caller's ctx.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromeSession) WaitForSelector(ctx context.Context, sel string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.run(ctx, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (s *chromeSession) Click(ctx context.Context, sel string) error {
	return s.run(ctx, chromedp.Click(sel, chromedp.ByQuery))
}

func (s *chromeSession) Content(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.Evaluate(`document.documentElement.outerHTML`, &html)); err != nil {
		return "", err
	}
	return html, nil
}

func (s *chromeSession) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close()
	})
	return s.closeErr
}

func (s *chromeSession) close() error {
	var errs []error

	c := chromedp.FromContext(s.ctx)
	if c != nil && c.Browser != nil {
		ctx, cancel := context.WithTimeout(s.ctx, constants.SessionCloseTimeout)
		defer cancel()

		targets, err := chromedp.Targets(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to list targets: %w", err))
		}
		for _, t := range targets {
			if t.Type != "page" {
				continue
			}
			// a remote browser is shared, only our own tab is ours to close
			if s.sharedBrowser && (c.Target == nil || t.TargetID != c.Target.TargetID) {
				continue
			}
			if err := target.CloseTarget(t.TargetID).Do(cdp.WithExecutor(ctx, c.Browser)); err != nil {
				errs = append(errs, fmt.Errorf("failed to close page %s: %w", t.TargetID, err))
			}
		}

		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	s.cancel()
	s.allocCancel()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Debug().Msg("browser session closed")
	return nil
}
