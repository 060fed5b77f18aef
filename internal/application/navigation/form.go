package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// LabelContains matches option labels containing keyword, ignoring case.
func LabelContains(keyword string) func(string) bool {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	return func(label string) bool {
		return strings.Contains(strings.ToLower(label), needle)
	}
}

// FormDriver performs single transitions against the current page.
type FormDriver struct {
	Waiter         *Waiter
	SubmitSelector string
	NextLabels     []string
	Timeout        time.Duration
	Logger         ports.Logger
}

// SelectOption picks the first option of a single-select whose label matches.
func (d *FormDriver) SelectOption(ctx context.Context, page ports.Page, selector string, match func(string) bool) error {
	options, err := page.Options(ctx, selector)
	if err != nil {
		return navigationError(fmt.Errorf("read options of %s: %w", selector, err))
	}
	for _, opt := range options {
		if !match(opt.Label) {
			continue
		}
		if err := page.Select(ctx, selector, opt.Value); err != nil {
			return navigationError(fmt.Errorf("select %q: %w", opt.Label, err))
		}
		d.Logger.Debug("option selected", map[string]interface{}{
			"selector": selector,
			"label":    strings.TrimSpace(opt.Label),
		})
		return nil
	}
	return domain.Recoverable(domain.ReasonOptionNotFound,
		fmt.Errorf("no option of %s matched among %d options", selector, len(options)))
}

// Advance clicks the first submit control labelled Next and waits for the
// navigation to settle. It returns false, nil when no such control exists.
func (d *FormDriver) Advance(ctx context.Context, page ports.Page) (bool, error) {
	next, found, err := d.FindControl(ctx, page, d.NextLabels)
	if err != nil || !found {
		return false, err
	}
	if err := d.Trigger(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// FindControl waits for submit controls, reads their values concurrently and
// returns the first one, in document order, whose value matches labels.
func (d *FormDriver) FindControl(ctx context.Context, page ports.Page, labels []string) (ports.Element, bool, error) {
	if err := d.Waiter.WaitFor(ctx, page, d.SubmitSelector, d.Timeout); err != nil {
		return nil, false, err
	}
	controls, err := page.QueryAll(ctx, d.SubmitSelector)
	if err != nil {
		return nil, false, navigationError(fmt.Errorf("query %s: %w", d.SubmitSelector, err))
	}

	values := make([]string, len(controls))
	g, gctx := errgroup.WithContext(ctx)
	for i, control := range controls {
		i, control := i, control
		g.Go(func() error {
			v, err := control.Value(gctx)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, navigationError(fmt.Errorf("read control values: %w", err))
	}

	for i, v := range values {
		if domain.MatchesLabel(v, labels) {
			return controls[i], true, nil
		}
	}
	return nil, false, nil
}

// Trigger clicks a control and waits for the page to settle.
func (d *FormDriver) Trigger(ctx context.Context, control ports.Element) error {
	if err := control.ClickAndWait(ctx, d.Timeout); err != nil {
		return navigationError(err)
	}
	return nil
}

func navigationError(err error) error {
	var ce *domain.CheckError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Recoverable(domain.ReasonTimeout, err)
	}
	return domain.Recoverable(domain.ReasonNavigationFailed, err)
}
