package navigation

import (
	"context"
	"fmt"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Recovery detects the site's "no capacity" interstitial and walks the page
// back to the step the caller was on: Back once, then Next ForwardSteps times.
type Recovery struct {
	Driver       *FormDriver
	Markers      []string
	BackLabels   []string
	Limit        int
	ForwardSteps int
	Logger       ports.Logger
}

// IsErrorPage reports whether the visible body text contains an error marker.
func (r *Recovery) IsErrorPage(ctx context.Context, page ports.Page) (bool, error) {
	text, err := page.Text(ctx)
	if err != nil {
		return false, navigationError(fmt.Errorf("read page text: %w", err))
	}
	return domain.ContainsMarker(text, r.Markers), nil
}

// Recover is a no-op on a normal page. On an error page it loops
// back/forward until the page is clean, giving up with a fatal
// recovery_exhausted after Limit attempts.
func (r *Recovery) Recover(ctx context.Context, page ports.Page) error {
	limit := r.Limit
	if limit < 1 {
		limit = domain.DefaultRecoveryLimit
	}

	for attempt := 0; ; attempt++ {
		onError, err := r.IsErrorPage(ctx, page)
		if err != nil {
			return err
		}
		if !onError {
			if attempt > 0 {
				r.Logger.Info("recovered from error page", map[string]interface{}{"attempts": attempt})
			}
			return nil
		}
		if attempt >= limit {
			return domain.Fatal(domain.ReasonRecoveryExhausted,
				fmt.Errorf("error page persisted after %d recovery attempts", limit))
		}

		r.Logger.Info("detected error page, navigating back and forward", map[string]interface{}{
			"attempt": attempt + 1,
			"limit":   limit,
		})

		back, found, err := r.Driver.FindControl(ctx, page, r.BackLabels)
		if err != nil {
			return err
		}
		if !found {
			return domain.Fatal(domain.ReasonBackControlMissing,
				fmt.Errorf("no submit control labelled %v on error page", r.BackLabels))
		}
		if err := r.Driver.Trigger(ctx, back); err != nil {
			return err
		}

		for step := 1; step <= r.ForwardSteps; step++ {
			ok, err := r.Driver.Advance(ctx, page)
			if err != nil {
				return err
			}
			if !ok {
				return domain.Recoverable(domain.ReasonNextControlMissing,
					fmt.Errorf("no Next control on forward step %d after going back", step))
			}
		}
	}
}
