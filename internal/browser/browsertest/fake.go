// Package browsertest provides in-memory browser sessions for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rivals-tracker/internal/browser"
)

// Page serves documents from Site instead of a real browser.
type Page struct {
	// Site resolves a navigated url into the document served for it.
	Site func(url string) (string, error)
	// ContentFunc, when set, replaces the served document. call starts at 1.
	ContentFunc func(call int) (string, error)
	// Visible lists the selectors WaitForSelector finds.
	Visible       map[string]bool
	ClickErr      error
	ScreenshotErr error

	mu           sync.Mutex
	html         string
	navigations  []string
	clicks       []string
	contentCalls int
	closed       bool
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigations = append(p.navigations, url)
	if p.Site == nil {
		return nil
	}
	html, err := p.Site(url)
	if err != nil {
		return err
	}
	p.html = html
	return nil
}

func (p *Page) WaitForSelector(ctx context.Context, sel string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Visible[sel] {
		return nil
	}
	return fmt.Errorf("waiting for %s: %w", sel, context.DeadlineExceeded)
}

func (p *Page) Click(ctx context.Context, sel string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clicks = append(p.clicks, sel)
	return p.ClickErr
}

func (p *Page) Content(ctx context.Context) (string, error) {
	p.mu.Lock()
	p.contentCalls++
	call := p.contentCalls
	html := p.html
	fn := p.ContentFunc
	p.mu.Unlock()

	if fn != nil {
		return fn(call)
	}
	return html, nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if p.ScreenshotErr != nil {
		return nil, p.ScreenshotErr
	}
	return []byte("\x89PNG"), nil
}

func (p *Page) ContentCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.contentCalls
}

func (p *Page) Clicks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.clicks...)
}

func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

type Session struct {
	SessionID string
	FakePage  *Page
	CloseErr  error

	mu     sync.Mutex
	closes int
}

func (s *Session) ID() string { return s.SessionID }

func (s *Session) Page() browser.Page { return s.FakePage }

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return s.CloseErr
}

func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Launcher hands out a fresh Session per Acquire.
type Launcher struct {
	Site       func(url string) (string, error)
	Configure  func(p *Page)
	AcquireErr error
	CloseErr   error

	mu       sync.Mutex
	sessions []*Session
}

func (l *Launcher) Acquire(ctx context.Context) (browser.Session, error) {
	if l.AcquireErr != nil {
		return nil, l.AcquireErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &Page{Site: l.Site}
	if l.Configure != nil {
		l.Configure(page)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	s := &Session{
		SessionID: fmt.Sprintf("fake-%d", len(l.sessions)+1),
		FakePage:  page,
		CloseErr:  l.CloseErr,
	}
	l.sessions = append(l.sessions, s)
	return s, nil
}

func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}

var ErrNavigation = errors.New("net::ERR_NAME_NOT_RESOLVED")
