package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/page"
)

// Launcher owns the Playwright process and one shared headless browser.
// Sessions are isolated browser contexts handed out per site.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	config  Config
	logger  *zap.Logger
}

// NewLauncher starts Playwright and launches the browser
func NewLauncher(cfg Config, logger *zap.Logger) (*Launcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &Launcher{
		pw:      pw,
		browser: browser,
		config:  cfg,
		logger:  logger,
	}, nil
}

// NewSession creates an isolated browser context with its own page
func (l *Launcher) NewSession(ctx context.Context) (Session, error) {
	browserCtx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
		UserAgent: playwright.String(l.config.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	pg, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	return &playwrightSession{
		ctx:    browserCtx,
		page:   pg,
		config: l.config,
		logger: l.logger,
	}, nil
}

// Close shuts down the browser and the Playwright process
func (l *Launcher) Close() error {
	if l.browser != nil {
		l.browser.Close()
	}
	if l.pw != nil {
		return l.pw.Stop()
	}
	return nil
}

// playwrightSession implements Session over one browser context
type playwrightSession struct {
	ctx    playwright.BrowserContext
	page   playwright.Page
	config Config
	logger *zap.Logger
}

func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	// networkidle waits for JS frameworks to finish rendering
	resp, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(s.config.NavTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if resp != nil && resp.Status() >= 400 {
		return fmt.Errorf("navigating to %s: page returned status %d", url, resp.Status())
	}
	return nil
}

func (s *playwrightSession) URL() string {
	return s.page.URL()
}

// Snapshot pulls the whole page structure in a single in-page evaluation.
// Every interactive element gets a data-uxb attribute so the locator
// returned here stays actionable for Click/Fill.
func (s *playwrightSession) Snapshot(ctx context.Context) (*page.RawSnapshot, error) {
	result, err := s.page.Evaluate(extractScript)
	if err != nil {
		return nil, fmt.Errorf("extracting page structure: %w", err)
	}

	// Round-trip through JSON validates the loosely-typed evaluate output
	// at the boundary; nothing downstream sees untyped DOM data.
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding page extraction: %w", err)
	}

	var raw page.RawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding page extraction: %w", err)
	}

	raw.URL = s.page.URL()
	if title, err := s.page.Title(); err == nil {
		raw.Title = title
	}

	return &raw, nil
}

func (s *playwrightSession) Click(ctx context.Context, locator string) error {
	err := s.page.Locator(locator).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(s.config.ActionTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("clicking %s: %w", locator, err)
	}

	// Let any triggered navigation or rendering settle
	s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(s.config.NavTimeout.Milliseconds())),
	})
	return nil
}

func (s *playwrightSession) Fill(ctx context.Context, locator, value string) error {
	err := s.page.Locator(locator).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(s.config.ActionTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("filling %s: %w", locator, err)
	}
	return nil
}

func (s *playwrightSession) ScrollBy(ctx context.Context, dy int) error {
	if _, err := s.page.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", dy)); err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}
	return nil
}

func (s *playwrightSession) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("taking screenshot: %w", err)
	}
	return data, nil
}

func (s *playwrightSession) Close() error {
	if s.page != nil {
		s.page.Close()
	}
	if s.ctx != nil {
		return s.ctx.Close()
	}
	return nil
}
