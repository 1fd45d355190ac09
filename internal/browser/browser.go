// Package browser wraps a headless Chrome session behind a small interface
// so scroll-based collectors can run against a fake in tests.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"

	"sentiment-scanner/internal/logger"
)

// Session is the surface the scroll collectors need from a browser: page
// navigation, text extraction by CSS selector, scrolling, and clicking.
type Session interface {
	// Navigate loads the URL and waits for the document to become ready.
	Navigate(ctx context.Context, url string) error
	// TextsOf returns the visible text of every element matching the
	// selector, in document order.
	TextsOf(ctx context.Context, selector string) ([]string, error)
	// ScrollTo scrolls the window to the given vertical offset in pixels.
	ScrollTo(ctx context.Context, offset int64) error
	// ScrollHeight reports the current total scrollable height of the page.
	ScrollHeight(ctx context.Context) (int64, error)
	// ViewportHeight reports the window's inner height.
	ViewportHeight(ctx context.Context) (int64, error)
	// ClickFirst clicks the first element matching the selector. It returns
	// ErrNoElement when nothing matches.
	ClickFirst(ctx context.Context, selector string) error
	// Close releases the underlying browser.
	Close() error
}

// ErrNoElement reports that a selector matched nothing on the page.
var ErrNoElement = errors.New("browser: no element matches selector")

// ChromeSession drives a headless Chrome via chromedp. All page interaction
// goes through Evaluate so the selectors stay plain CSS strings.
type ChromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChromeSession launches a headless Chrome with a realistic user agent.
func NewChromeSession(parent context.Context) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1280, 1024),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	// Launching is lazy in chromedp; run a no-op so failures surface here.
	if err := chromedp.Run(ctx); err != nil {
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	logger.Debug(ctx, "Headless browser session started")
	return &ChromeSession{
		ctx: ctx,
		cancel: func() {
			ctxCancel()
			allocCancel()
		},
	}, nil
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	run, cancel := s.scoped(ctx)
	defer cancel()
	if err := chromedp.Run(run,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *ChromeSession) TextsOf(ctx context.Context, selector string) ([]string, error) {
	run, cancel := s.scoped(ctx)
	defer cancel()
	var texts []string
	script := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.innerText)`, selector)
	if err := chromedp.Run(run, chromedp.Evaluate(script, &texts)); err != nil {
		return nil, fmt.Errorf("extract %q: %w", selector, err)
	}
	return texts, nil
}

func (s *ChromeSession) ScrollTo(ctx context.Context, offset int64) error {
	run, cancel := s.scoped(ctx)
	defer cancel()
	script := fmt.Sprintf(`window.scrollTo(0, %d)`, offset)
	if err := chromedp.Run(run, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll to %d: %w", offset, err)
	}
	return nil
}

func (s *ChromeSession) ScrollHeight(ctx context.Context) (int64, error) {
	return s.evalInt(ctx, `document.body.scrollHeight`)
}

func (s *ChromeSession) ViewportHeight(ctx context.Context) (int64, error) {
	return s.evalInt(ctx, `window.innerHeight`)
}

func (s *ChromeSession) ClickFirst(ctx context.Context, selector string) error {
	run, cancel := s.scoped(ctx)
	defer cancel()
	var clicked bool
	script := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); if (!el) return false; el.click(); return true; })()`,
		selector)
	if err := chromedp.Run(run, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	if !clicked {
		return ErrNoElement
	}
	return nil
}

func (s *ChromeSession) Close() error {
	s.cancel()
	return nil
}

func (s *ChromeSession) evalInt(ctx context.Context, expr string) (int64, error) {
	run, cancel := s.scoped(ctx)
	defer cancel()
	var v int64
	if err := chromedp.Run(run, chromedp.Evaluate(expr, &v)); err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	return v, nil
}

// scoped ties a chromedp run to the caller's deadline without detaching it
// from the session's browser context.
func (s *ChromeSession) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return s.ctx, func() {}
	}
	return context.WithDeadline(s.ctx, deadline)
}
