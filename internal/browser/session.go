package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var (
	// ErrNavigationTimeout means a page or its readiness element did not
	// become ready within the configured timeout, after all retries.
	ErrNavigationTimeout = errors.New("navigation timeout")

	// ErrElementNotFound means a required element was absent from the page.
	ErrElementNotFound = errors.New("element not found")
)

// Options fixes the browser configuration at session creation.
type Options struct {
	Headless          bool
	UserAgent         string
	WindowWidth       int
	WindowHeight      int
	NavTimeout        time.Duration
	NavRetries        int
	ScrollPause       time.Duration
	MaxScrollAttempts int
}

// Session owns one Chrome instance. It drives one navigation at a time and
// is not safe for use from multiple goroutines.
type Session struct {
	opts         Options
	browserCtx   context.Context
	cancelBrowse context.CancelFunc
	cancelAlloc  context.CancelFunc
}

// Hides navigator.webdriver before any page script runs.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

// Launch starts Chrome with the anti-detection tweaks applied and verifies
// the browser actually came up.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("lang", "en-US"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowse := chromedp.NewContext(allocCtx)

	s := &Session{
		opts:         opts,
		browserCtx:   browserCtx,
		cancelBrowse: cancelBrowse,
		cancelAlloc:  cancelAlloc,
	}

	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	}))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	log.Println("Browser session ready")
	return s, nil
}

// Navigate loads url and blocks until readySelector is present in the DOM.
// A timed-out navigation is retried NavRetries times before surfacing
// ErrNavigationTimeout. An empty readySelector waits for load only.
func (s *Session) Navigate(url, readySelector string) error {
	var lastErr error
	for attempt := 0; attempt <= s.opts.NavRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying navigation to %s (attempt %d/%d)", url, attempt+1, s.opts.NavRetries+1)
			time.Sleep(time.Second * time.Duration(attempt))
		}

		tasks := chromedp.Tasks{chromedp.Navigate(url)}
		if readySelector != "" {
			tasks = append(tasks, chromedp.WaitReady(readySelector, chromedp.ByQuery))
		}

		err := s.run(s.opts.NavTimeout, tasks)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			lastErr = fmt.Errorf("%w: %s", ErrNavigationTimeout, url)
			continue
		}
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return lastErr
}

// HTML returns a serialization of the current DOM.
func (s *Session) HTML() (string, error) {
	var html string
	if err := s.run(s.opts.NavTimeout, chromedp.Tasks{
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}); err != nil {
		return "", fmt.Errorf("reading page source: %w", err)
	}
	return html, nil
}

// Scroll performs one scroll-to-bottom step and waits for lazy content.
func (s *Session) Scroll() error {
	err := s.run(s.opts.NavTimeout, chromedp.Tasks{
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	})
	if err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}
	time.Sleep(s.opts.ScrollPause)
	return nil
}

// ScrollToBottom repeatedly scrolls until the page height stops growing or
// MaxScrollAttempts is reached, so loops on broken pages stay bounded.
func (s *Session) ScrollToBottom() error {
	var lastHeight int64 = -1
	for i := 0; i < s.opts.MaxScrollAttempts; i++ {
		if err := s.Scroll(); err != nil {
			return err
		}
		var height int64
		if err := s.run(s.opts.NavTimeout, chromedp.Tasks{
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		}); err != nil {
			return fmt.Errorf("measuring page height: %w", err)
		}
		if height == lastHeight {
			return nil
		}
		lastHeight = height
	}
	return nil
}

// Click clicks the first visible element matching selector. Absence within
// a short wait is reported as ErrElementNotFound; callers treat it as
// optional unless they require the element.
func (s *Session) Click(selector string) error {
	err := s.run(5*time.Second, chromedp.Tasks{
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
		}
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancelBrowse()
	s.cancelAlloc()
	log.Println("Browser session closed")
}

func (s *Session) run(timeout time.Duration, tasks chromedp.Tasks) error {
	ctx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	return chromedp.Run(ctx, tasks)
}
