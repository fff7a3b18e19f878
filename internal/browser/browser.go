// Package browser wraps the page automation the tracker scrape relies on.
// Every Session is owned by exactly one caller and must be closed by it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rivals-tracker/internal/config"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrUnsupported = errors.New("operation not supported by this session")

type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitForSelector blocks until sel matches a visible element or timeout passes.
	WaitForSelector(ctx context.Context, sel string, timeout time.Duration) error
	Click(ctx context.Context, sel string) error
	// Content returns the serialized DOM as currently rendered.
	Content(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
}

type Session interface {
	ID() string
	Page() Page
	// Close force-closes every page and the browser. Safe to call more than once.
	Close() error
}

type Launcher interface {
	Acquire(ctx context.Context) (Session, error)
}

func NewLauncher(cfg *config.Config, logger zerolog.Logger) (Launcher, error) {
	switch cfg.BrowserMode {
	case config.BrowserModeChrome:
		return NewChromeLauncher(cfg, logger), nil
	case config.BrowserModeStatic:
		return NewStaticLauncher(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown browser mode %q", cfg.BrowserMode)
	}
}

func newSessionID() string {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	return id
}
