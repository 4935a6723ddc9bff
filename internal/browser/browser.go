package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Session owns one playwright stack: driver, browser, context and the active
// page. All element operations take an explicit per-call timeout.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	allowed []string
}

// Options configures the launched browser.
type Options struct {
	Headless       bool
	SlowMo         float64
	AllowedDomains []string
}

// PageState is a lightweight snapshot of the active page for prompts and
// verification.
type PageState struct {
	URL     string
	Title   string
	Content string
}

func NewSession(opts Options) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(opts.SlowMo),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Permissions: []string{"clipboard-read", "clipboard-write"},
		NoViewport:  playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("create page: %w", err)
	}

	s := &Session{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		allowed: opts.AllowedDomains,
	}

	if len(s.allowed) > 0 {
		if err := context.Route("**/*", s.routeFilter); err != nil {
			s.Close()
			return nil, fmt.Errorf("install domain filter: %w", err)
		}
	}

	return s, nil
}

// routeFilter aborts navigations outside the allowed domains. Subresource
// requests pass through untouched.
func (s *Session) routeFilter(route playwright.Route) {
	req := route.Request()
	if !req.IsNavigationRequest() || DomainAllowed(req.URL(), s.allowed) {
		route.Continue()
		return
	}
	logrus.WithField("url", req.URL()).Warn("blocked navigation outside allowed domains")
	route.Abort()
}

func (s *Session) Navigate(url string, timeout time.Duration) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (s *Session) WaitForLoad(timeout time.Duration) error {
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// Click resolves the first element matching selector and clicks it.
func (s *Session) Click(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// Fill resolves the first element matching selector and writes text into it.
func (s *Session) Fill(selector, text string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Fill(text, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// Clear empties the first element matching selector.
func (s *Session) Clear(selector string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Clear(playwright.LocatorClearOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (s *Session) Press(selector, key string, timeout time.Duration) error {
	return s.page.Locator(selector).First().Press(key, playwright.LocatorPressOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (s *Session) GetText(selector string, timeout time.Duration) (string, error) {
	text, err := s.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return "", fmt.Errorf("text content of %q: %w", selector, err)
	}
	return text, nil
}

// Sleep pauses through the driver so pacing follows the page's clock.
func (s *Session) Sleep(d time.Duration) {
	s.page.WaitForTimeout(float64(d.Milliseconds()))
}

// SwitchTab makes the context page at index the active page.
func (s *Session) SwitchTab(index int, timeout time.Duration) error {
	pages := s.context.Pages()
	if index < 0 || index >= len(pages) {
		return fmt.Errorf("tab %d not found (%d open)", index, len(pages))
	}
	s.page = pages[index]
	if err := s.page.BringToFront(); err != nil {
		return fmt.Errorf("bring tab %d to front: %w", index, err)
	}
	return s.WaitForLoad(timeout)
}

func (s *Session) CurrentURL() string {
	return s.page.URL()
}

func (s *Session) GetPageState() (*PageState, error) {
	title, err := s.page.Title()
	if err != nil {
		return nil, fmt.Errorf("page title: %w", err)
	}

	content, err := s.page.Locator("body").First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		content = ""
	}

	return &PageState{
		URL:     s.page.URL(),
		Title:   title,
		Content: content,
	}, nil
}

// Close tears the stack down in reverse order of construction. Failures are
// logged, never returned: cleanup runs on every exit path.
func (s *Session) Close() {
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			logrus.WithError(err).Warn("could not close browser context")
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logrus.WithError(err).Warn("could not close browser")
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			logrus.WithError(err).Warn("could not stop playwright driver")
		}
	}
}
