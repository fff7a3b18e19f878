package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"rivals-tracker/internal/browser"
	"rivals-tracker/internal/config"
	"rivals-tracker/internal/constants"
	"rivals-tracker/internal/domain"
	"rivals-tracker/internal/scraper"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const successMessage = "Page loaded successfully"

type TrackerService struct {
	launcher browser.Launcher
	poller   *scraper.Poller
	scraper  *scraper.Scraper
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewTrackerService(launcher browser.Launcher, poller *scraper.Poller, sc *scraper.Scraper, cfg *config.Config, logger zerolog.Logger) *TrackerService {
	return &TrackerService{launcher: launcher, poller: poller, scraper: sc, cfg: cfg, logger: logger}
}

// Search scrapes every handle in its own browser session, all at once (or
// MaxSessions at a time). It always returns one result per handle, in the
// order the handles were given; failures become error results.
func (s *TrackerService) Search(ctx context.Context, handles []string) []domain.PlayerResult {
	results := make([]domain.PlayerResult, len(handles))

	g := new(errgroup.Group)
	if s.cfg.MaxSessions > 0 {
		g.SetLimit(s.cfg.MaxSessions)
	}
	for i, handle := range handles {
		i, handle := i, handle
		g.Go(func() error {
			results[i] = s.searchOne(ctx, handle)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, r := range results {
		if r.Status != domain.StatusSuccess {
			failed++
		}
	}
	s.logger.Info().Int("handles", len(handles)).Int("failed", failed).Msg("tracker search completed")

	return results
}

func (s *TrackerService) searchOne(ctx context.Context, handle string) (result domain.PlayerResult) {
	logger := s.logger.With().Str("handle", handle).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("tracker pipeline panicked")
			result = domain.NewErrorResult(handle, fmt.Sprintf("internal error: %v", r))
		}
	}()

	profile, err := s.scrape(ctx, handle, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to search tracker")
		return domain.NewErrorResult(handle, err.Error())
	}

	logger.Info().Int("roles", len(profile.Roles)).Int("heroes", len(profile.Heroes)).Msg("player scraped")
	return domain.PlayerResult{
		Handle:  handle,
		Status:  domain.StatusSuccess,
		Message: successMessage,
		Roles:   profile.Roles,
		Heroes:  profile.Heroes,
	}
}

func (s *TrackerService) scrape(ctx context.Context, handle string, logger zerolog.Logger) (domain.Profile, error) {
	session, err := s.launcher.Acquire(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to acquire browser session: %w", err)
	}
	defer s.release(session, logger)

	logger = logger.With().Str("session_id", session.ID()).Logger()
	page := session.Page()

	profileURL := ProfileURL(s.cfg.ProfileURLTemplate, handle)
	logger.Debug().Str("url", profileURL).Msg("navigating to profile")

	navCtx, cancel := context.WithTimeout(ctx, constants.NavigationTimeout)
	err = page.Navigate(navCtx, profileURL)
	cancel()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to navigate to %s: %w", profileURL, err)
	}

	readiness, err := s.poller.Wait(ctx, page)
	if err != nil {
		logger.Warn().Str("state", readiness.State.String()).Int("attempts", readiness.Attempts).Msg("profile page not ready")
		return domain.Profile{}, err
	}

	profile, err := s.scraper.Scrape(ctx, page)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to extract profile: %w", err)
	}

	s.saveDebugScreenshot(ctx, session, logger)

	// the deferred release runs again and must be a no-op
	s.release(session, logger)
	return profile, nil
}

func (s *TrackerService) release(session browser.Session, logger zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("browser session close panicked")
		}
	}()
	if err := session.Close(); err != nil {
		logger.Warn().Err(err).Str("session_id", session.ID()).Msg("failed to close browser session")
	}
}

func (s *TrackerService) saveDebugScreenshot(ctx context.Context, session browser.Session, logger zerolog.Logger) {
	if s.cfg.DebugScreenshotDir == "" {
		return
	}
	buf, err := session.Page().Screenshot(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("failed to capture screenshot")
		return
	}
	if err := os.MkdirAll(s.cfg.DebugScreenshotDir, 0755); err != nil {
		logger.Warn().Err(err).Msg("failed to create screenshot directory")
		return
	}
	path := filepath.Join(s.cfg.DebugScreenshotDir, session.ID()+".png")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to write screenshot")
		return
	}
	logger.Debug().Str("path", path).Msg("screenshot saved")
}

// ProfileURL places handle into template as a single escaped path segment,
// so "a/b" or "名前" cannot change which page is requested.
func ProfileURL(template, handle string) string {
	return strings.ReplaceAll(template, constants.HandlePlaceholder, url.PathEscape(handle))
}
