package navigation

import (
	"context"
	"time"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Waiter is the only place that polls for elements. Every "does X exist yet"
// question goes through it so the retry policy stays uniform.
type Waiter struct {
	Retries int
	Delay   time.Duration
	Clock   ports.Clock
	Logger  ports.Logger
}

// WaitFor tries up to Retries times, each attempt bounded by timeout, sleeping
// Delay between attempts. Exhaustion yields an element_not_found CheckError.
func (w *Waiter) WaitFor(ctx context.Context, page ports.Page, selector string, timeout time.Duration) error {
	retries := w.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		err := page.WaitForSelector(ctx, selector, timeout)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return domain.ElementNotFound(selector, attempt, ctx.Err())
		}
		if attempt == retries {
			break
		}
		w.Logger.Warn("element not found, retrying", map[string]interface{}{
			"selector": selector,
			"attempt":  attempt,
			"delay":    w.Delay.String(),
		})
		if err := w.Clock.Sleep(ctx, w.Delay); err != nil {
			return domain.ElementNotFound(selector, attempt, err)
		}
	}
	return domain.ElementNotFound(selector, retries, lastErr)
}
