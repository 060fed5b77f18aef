package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Page lifecycle event names.
const (
	lifecycleInit        = "init"
	lifecycleNetworkIdle = "networkIdle"
)

// ChromedpLauncher drives a local Chrome over the DevTools protocol.
type ChromedpLauncher struct {
	Headless bool
	Args     []string
	// ExecPath overrides the Chrome binary lookup when set.
	ExecPath string
	Logger   ports.Logger
}

// Launch starts a browser process. The process outlives ctx; it is stopped by
// Close on the returned session.
func (l *ChromedpLauncher) Launch(ctx context.Context) (ports.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.Headless),
	)
	for name, value := range parseArgs(l.Args) {
		opts = append(opts, chromedp.Flag(name, value))
	}
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			l.Logger.Debug("chromedp", map[string]interface{}{"message": fmt.Sprintf(format, args...)})
		}),
	)

	if err := firstRun(ctx, browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	l.Logger.Info("browser launched", map[string]interface{}{"driver": "chromedp", "headless": l.Headless})
	return &chromedpSession{browserCtx: browserCtx, browserCancel: browserCancel, allocCancel: allocCancel}, nil
}

type chromedpSession struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	closeOnce     sync.Once
	closeErr      error
}

func (s *chromedpSession) NewPage(ctx context.Context) (ports.Page, error) {
	if err := s.browserCtx.Err(); err != nil {
		return nil, fmt.Errorf("browser gone: %w", err)
	}
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	if err := firstRun(ctx, tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &chromedpPage{tabCtx: tabCtx, cancel: tabCancel}, nil
}

// firstRun attaches the browser or tab behind c. The attachment lives as long
// as the context handed to Run, so c itself is used and ctx only bounds the wait.
func firstRun(ctx, c context.Context) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(c) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *chromedpSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.browserCtx)
		s.browserCancel()
		s.allocCancel()
		if errors.Is(s.closeErr, context.Canceled) {
			s.closeErr = nil
		}
	})
	return s.closeErr
}

type chromedpPage struct {
	tabCtx context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	url string
}

const locationTimeout = 5 * time.Second

// Goto waits for the load event and then for the page's networkIdle
// lifecycle event, the same point playwright's networkidle state marks.
func (p *chromedpPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	bounded, cancel := bind(ctx, p.tabCtx, timeout)
	defer cancel()

	listen, idle := networkIdleListener()
	chromedp.ListenTarget(bounded, listen)

	if err := chromedp.Run(bounded, page.SetLifecycleEventsEnabled(true), chromedp.Navigate(url)); err != nil {
		return deadline(ctx, bounded, err)
	}
	p.setURL(url)

	select {
	case <-idle:
		return nil
	case <-bounded.Done():
		return deadline(ctx, bounded, fmt.Errorf("wait for network idle on %s: %w", url, bounded.Err()))
	}
}

func (p *chromedpPage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return runBounded(ctx, p.tabCtx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (p *chromedpPage) QueryAll(ctx context.Context, selector string) ([]ports.Element, error) {
	var nodes []*cdp.Node
	if err := runBounded(ctx, p.tabCtx, 0, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	elements := make([]ports.Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &chromedpElement{page: p, node: node})
	}
	return elements, nil
}

func (p *chromedpPage) Text(ctx context.Context) (string, error) {
	var text string
	err := runBounded(ctx, p.tabCtx, 0, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text))
	return text, err
}

func (p *chromedpPage) Options(ctx context.Context, selector string) ([]ports.SelectOption, error) {
	sel, err := json.Marshal(selector)
	if err != nil {
		return nil, err
	}
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el || !el.options) return null;
		return Array.from(el.options).map(o => ({label: o.text, value: o.value}));
	})()`, sel)

	var options *[]ports.SelectOption
	if err := runBounded(ctx, p.tabCtx, 0, chromedp.Evaluate(script, &options)); err != nil {
		return nil, err
	}
	if options == nil {
		return nil, fmt.Errorf("%s is not a select control", selector)
	}
	return *options, nil
}

func (p *chromedpPage) Select(ctx context.Context, selector, value string) error {
	sel, err := json.Marshal(selector)
	if err != nil {
		return err
	}
	val, err := json.Marshal(value)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.value = %s;
		if (el.value !== %s) return false;
		el.dispatchEvent(new Event("input", {bubbles: true}));
		el.dispatchEvent(new Event("change", {bubbles: true}));
		return true;
	})()`, sel, val, val)

	var ok bool
	if err := runBounded(ctx, p.tabCtx, 0, chromedp.Evaluate(script, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("option %s not selectable in %s", val, selector)
	}
	return nil
}

func (p *chromedpPage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	// Quality 100 yields PNG.
	if err := runBounded(ctx, p.tabCtx, 0, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *chromedpPage) URL() string {
	var location string
	if err := runBounded(context.Background(), p.tabCtx, locationTimeout, chromedp.Location(&location)); err == nil {
		p.setURL(location)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *chromedpPage) Close() error {
	p.cancel()
	return nil
}

func (p *chromedpPage) setURL(url string) {
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
}

type chromedpElement struct {
	page *chromedpPage
	node *cdp.Node
}

func (e *chromedpElement) Value(ctx context.Context) (string, error) {
	var value string
	err := runBounded(ctx, e.page.tabCtx, 0,
		chromedp.JavascriptAttribute([]cdp.NodeID{e.node.NodeID}, "value", &value, chromedp.ByNodeID),
	)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (e *chromedpElement) ClickAndWait(ctx context.Context, timeout time.Duration) error {
	bounded, cancel := bind(ctx, e.page.tabCtx, timeout)
	defer cancel()
	if _, err := chromedp.RunResponse(bounded, chromedp.MouseClickNode(e.node)); err != nil {
		return deadline(ctx, bounded, err)
	}
	return nil
}

// runBounded runs actions on the tab context, stopping at whichever comes
// first: ctx cancellation or timeout (0 means no extra deadline).
// networkIdleListener signals once a document committed after the listener
// was installed reports networkIdle. Idle events from an earlier document
// are ignored.
func networkIdleListener() (func(ev interface{}), <-chan struct{}) {
	idle := make(chan struct{}, 1)
	started := make(chan struct{})
	var committed sync.Once
	listen := func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		switch e.Name {
		case lifecycleInit:
			committed.Do(func() { close(started) })
		case lifecycleNetworkIdle:
			select {
			case <-started:
			default:
				return
			}
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	}
	return listen, idle
}

func runBounded(ctx, tabCtx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	bounded, cancel := bind(ctx, tabCtx, timeout)
	defer cancel()
	if err := chromedp.Run(bounded, actions...); err != nil {
		return deadline(ctx, bounded, err)
	}
	return nil
}

// bind derives a context from the chromedp tab context that is also
// cancelled with the caller's ctx.
func bind(ctx, tabCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		bounded context.Context
		cancel  context.CancelFunc
	)
	if timeout > 0 {
		bounded, cancel = context.WithTimeout(tabCtx, timeout)
	} else {
		bounded, cancel = context.WithCancel(tabCtx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return bounded, func() {
		stop()
		cancel()
	}
}

// deadline reports the caller's own cancellation when it caused the failure
// and normalizes driver-side timeouts to context.DeadlineExceeded.
func deadline(ctx, bounded context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(bounded.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}
