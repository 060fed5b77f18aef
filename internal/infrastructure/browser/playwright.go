package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// PlaywrightLauncher drives Chromium through the Playwright driver. The
// driver and browser binaries must be installed beforehand.
type PlaywrightLauncher struct {
	Headless       bool
	Args           []string
	ExecutablePath string
	Logger         ports.Logger
}

func (l *PlaywrightLauncher) Launch(ctx context.Context) (ports.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	instance, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	opts := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(l.Headless),
		Args:     l.Args,
	}
	if l.ExecutablePath != "" {
		opts.ExecutablePath = pw.String(l.ExecutablePath)
	}
	browser, err := instance.Chromium.Launch(opts)
	if err != nil {
		_ = instance.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	l.Logger.Info("browser launched", map[string]interface{}{"driver": "playwright", "headless": l.Headless})
	return &playwrightSession{instance: instance, browser: browser}, nil
}

type playwrightSession struct {
	instance *pw.Playwright
	browser  pw.Browser
}

func (s *playwrightSession) NewPage(ctx context.Context) (ports.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.browser.IsConnected() {
		return nil, errors.New("browser disconnected")
	}
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, err
	}
	return &playwrightPage{page: page}, nil
}

func (s *playwrightSession) Close() error {
	return errors.Join(s.browser.Close(), s.instance.Stop())
}

// playwrightPage maps the Page port onto a Playwright page. Playwright calls
// take millisecond timeouts rather than contexts, so ctx is checked up front.
type playwrightPage struct {
	page pw.Page
}

func (p *playwrightPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateNetworkidle,
		Timeout:   millis(timeout),
	})
	return translate(err)
}

func (p *playwrightPage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(p.page.Locator(selector).First().WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateAttached,
		Timeout: millis(timeout),
	}))
}

func (p *playwrightPage) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, translate(err)
	}
	elements := make([]ports.Element, 0, len(locators))
	for _, loc := range locators {
		elements = append(elements, &playwrightElement{page: p.page, locator: loc})
	}
	return elements, nil
}

func (p *playwrightPage) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := p.page.Locator("body").InnerText()
	return text, translate(err)
}

func (p *playwrightPage) Options(ctx context.Context, selector string) ([]ports.SelectOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := p.page.Locator(selector).First().Locator("option").All()
	if err != nil {
		return nil, translate(err)
	}
	options := make([]ports.SelectOption, 0, len(items))
	for _, item := range items {
		label, err := item.TextContent()
		if err != nil {
			return nil, translate(err)
		}
		value, err := item.GetAttribute("value")
		if err != nil {
			return nil, translate(err)
		}
		if value == "" {
			value = label
		}
		options = append(options, ports.SelectOption{Label: label, Value: value})
	}
	return options, nil
}

func (p *playwrightPage) Select(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	values := []string{value}
	_, err := p.page.Locator(selector).First().SelectOption(pw.SelectOptionValues{Values: &values})
	return translate(err)
}

func (p *playwrightPage) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := p.page.Screenshot(pw.PageScreenshotOptions{
		FullPage: pw.Bool(true),
		Type:     pw.ScreenshotTypePng,
	})
	return buf, translate(err)
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

type playwrightElement struct {
	page    pw.Page
	locator pw.Locator
}

func (e *playwrightElement) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := e.locator.InputValue()
	return value, translate(err)
}

func (e *playwrightElement) ClickAndWait(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.locator.Click(pw.LocatorClickOptions{Timeout: millis(timeout)}); err != nil {
		return translate(err)
	}
	return translate(e.page.WaitForLoadState(pw.PageWaitForLoadStateOptions{
		State:   pw.LoadStateNetworkidle,
		Timeout: millis(timeout),
	}))
}

func millis(d time.Duration) *float64 {
	return pw.Float(float64(d.Milliseconds()))
}

// translate maps Playwright timeouts onto context.DeadlineExceeded.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pw.ErrTimeout) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}
