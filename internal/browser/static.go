package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rivals-tracker/internal/config"
	"rivals-tracker/internal/constants"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// StaticLauncher serves sessions that fetch the page over plain HTTP without
// running any script. Useful where no chrome binary is available and for
// targets that render server side.
type StaticLauncher struct {
	client    *fasthttp.Client
	userAgent string
	logger    zerolog.Logger
}

func NewStaticLauncher(cfg *config.Config, logger zerolog.Logger) *StaticLauncher {
	return &StaticLauncher{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.StaticFetchTimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

func (l *StaticLauncher) Acquire(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := newSessionID()
	return &staticSession{
		id:        id,
		client:    l.client,
		userAgent: l.userAgent,
		logger:    l.logger.With().Str("session_id", id).Logger(),
	}, nil
}

type staticSession struct {
	id        string
	client    *fasthttp.Client
	userAgent string
	logger    zerolog.Logger

	mu     sync.Mutex
	body   string
	doc    *goquery.Document
	closed bool
}

func (s *staticSession) ID() string { return s.id }

func (s *staticSession) Page() Page { return s }

func (s *staticSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	if err := s.client.DoRedirects(req, resp, constants.StaticMaxRedirects); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("tracker returned status %d", resp.StatusCode())
	}

	body := string(resp.Body())
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session %s is closed", s.id)
	}
	s.body = body
	s.doc = doc
	s.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("page fetched")
	return nil
}

// WaitForSelector only inspects the fetched document; nothing renders later.
func (s *staticSession) WaitForSelector(ctx context.Context, sel string, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("no page loaded")
	}
	if s.doc.Find(sel).Length() == 0 {
		return fmt.Errorf("selector %q not found", sel)
	}
	return nil
}

func (s *staticSession) Click(ctx context.Context, sel string) error {
	return ErrUnsupported
}

func (s *staticSession) Content(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", fmt.Errorf("session %s is closed", s.id)
	}
	return s.body, nil
}

func (s *staticSession) Screenshot(ctx context.Context) ([]byte, error) {
	return nil, ErrUnsupported
}

func (s *staticSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.body = ""
	s.doc = nil
	return nil
}
