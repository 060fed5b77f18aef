// Package navigation walks the appointment form once per cycle and reports a
// single domain.CheckOutcome.
//
// The flow is fixed: Start → SelectService → Step 1..N → CheckAvailability.
// Each step is a Next click followed by the error recovery sub-machine. Every
// failure is folded into the outcome; nothing escapes as a raw error.
package navigation

import (
	"context"
	"fmt"
	"time"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Stage names the current position in the flow, for logs.
type Stage string

const (
	StageStart             Stage = "start"
	StageSelectService     Stage = "select_service"
	StageStep              Stage = "step"
	StageCheckAvailability Stage = "check_availability"
)

// Navigator is the orchestrator for one check.
type Navigator struct {
	EntryURL        string
	ServiceSelector string
	ServiceKeyword  string
	ChoiceSelector  string
	Steps           int
	Timeout         time.Duration

	Waiter   *Waiter
	Driver   *FormDriver
	Recovery *Recovery
	Logger   ports.Logger
}

// New assembles a Navigator and its collaborators from configuration.
func New(cfg domain.Config, clock ports.Clock, log ports.Logger) *Navigator {
	waiter := &Waiter{
		Retries: cfg.Navigation.WaitRetries,
		Delay:   cfg.Navigation.RetryDelay,
		Clock:   clock,
		Logger:  log,
	}
	driver := &FormDriver{
		Waiter:         waiter,
		SubmitSelector: cfg.Selectors.Submit,
		NextLabels:     cfg.Labels.Next,
		Timeout:        cfg.Navigation.Timeout,
		Logger:         log,
	}
	return &Navigator{
		EntryURL:        cfg.Target.EntryURL,
		ServiceSelector: cfg.Selectors.Service,
		ServiceKeyword:  cfg.Target.ServiceKeyword,
		ChoiceSelector:  cfg.Selectors.Choices,
		Steps:           cfg.Target.Steps,
		Timeout:         cfg.Navigation.Timeout,
		Waiter:          waiter,
		Driver:          driver,
		Recovery: &Recovery{
			Driver:       driver,
			Markers:      cfg.ErrorMarkers,
			BackLabels:   cfg.Labels.Back,
			Limit:        cfg.Navigation.RecoveryLimit,
			ForwardSteps: cfg.Navigation.ForwardStepsAfterBack,
			Logger:       log,
		},
		Logger: log,
	}
}

// Check opens a fresh page on session, walks the flow and closes the page on
// every exit path.
func (n *Navigator) Check(ctx context.Context, session ports.BrowserSession) domain.CheckOutcome {
	page, err := session.NewPage(ctx)
	if err != nil {
		return domain.OutcomeFromError(domain.Recoverable(domain.ReasonSessionLost, fmt.Errorf("open page: %w", err)))
	}
	defer func() {
		if err := page.Close(); err != nil {
			n.Logger.Warn("failed to close page", map[string]interface{}{"error": err.Error()})
		}
	}()

	outcome, err := n.walk(ctx, page)
	if err != nil {
		return domain.OutcomeFromError(err)
	}
	return outcome
}

func (n *Navigator) walk(ctx context.Context, page ports.Page) (domain.CheckOutcome, error) {
	n.stage(StageStart, 0)
	if err := page.Goto(ctx, n.EntryURL, n.Timeout); err != nil {
		return domain.CheckOutcome{}, navigationError(fmt.Errorf("goto %s: %w", n.EntryURL, err))
	}

	n.stage(StageSelectService, 0)
	if err := n.Waiter.WaitFor(ctx, page, n.ServiceSelector, n.Timeout); err != nil {
		return domain.CheckOutcome{}, err
	}
	if err := n.Driver.SelectOption(ctx, page, n.ServiceSelector, LabelContains(n.ServiceKeyword)); err != nil {
		return domain.CheckOutcome{}, err
	}

	for step := 1; step <= n.Steps; step++ {
		n.stage(StageStep, step)
		ok, err := n.Driver.Advance(ctx, page)
		if err != nil {
			return domain.CheckOutcome{}, fmt.Errorf("step %d: %w", step, err)
		}
		if !ok {
			return domain.CheckOutcome{}, domain.Recoverable(domain.ReasonNextControlMissing,
				fmt.Errorf("no Next control at step %d", step))
		}
		if err := n.Recovery.Recover(ctx, page); err != nil {
			return domain.CheckOutcome{}, fmt.Errorf("step %d: %w", step, err)
		}
	}

	n.stage(StageCheckAvailability, 0)
	return n.checkAvailability(ctx, page)
}

func (n *Navigator) checkAvailability(ctx context.Context, page ports.Page) (domain.CheckOutcome, error) {
	if err := n.Waiter.WaitFor(ctx, page, n.ChoiceSelector, n.Timeout); err != nil {
		if ce := domain.AsCheckError(err); ce.Reason == domain.ReasonElementNotFound && ctx.Err() == nil {
			return domain.NoSlotsAvailable(), nil
		}
		return domain.CheckOutcome{}, err
	}

	choices, err := page.QueryAll(ctx, n.ChoiceSelector)
	if err != nil {
		return domain.CheckOutcome{}, navigationError(fmt.Errorf("query %s: %w", n.ChoiceSelector, err))
	}
	if len(choices) == 0 {
		return domain.NoSlotsAvailable(), nil
	}

	// A slot is visible; a failed capture must not hide it.
	snapshot, err := page.Screenshot(ctx)
	if err != nil {
		n.Logger.Error("failed to capture slot page", err, map[string]interface{}{"choices": len(choices)})
		snapshot = nil
	}
	n.Logger.Info("appointment slots visible", map[string]interface{}{
		"choices": len(choices),
		"url":     page.URL(),
	})
	return domain.AppointmentFound(snapshot, n.EntryURL), nil
}

func (n *Navigator) stage(s Stage, step int) {
	fields := map[string]interface{}{"stage": string(s)}
	if step > 0 {
		fields["step"] = step
	}
	n.Logger.Debug("navigation stage", fields)
}
