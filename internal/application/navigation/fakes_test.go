package navigation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/pkg/logger"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

const (
	testService = "select#service"
	testChoices = `input[type="radio"]`
	testSubmit  = `input[type="submit"]`
	errorText   = "Unfortunately, all appointments have been allocated."
	normalText  = "Please continue with your booking."
)

var errAbsent = errors.New("selector not present")

// fakeSite models the appointment form as a linear flow. Position 0 holds the
// service selector; position steps holds the availability page. Clicking Back
// on an interstitial returns two positions, as the real site does.
type fakeSite struct {
	mu sync.Mutex

	steps         int
	choices       int
	options       []ports.SelectOption
	errorsAt      map[int]int
	noNext        bool
	noBack        bool
	screenshot    []byte
	screenshotErr error
	gotoErr       error

	pos             int
	onError         bool
	selected        string
	waits           map[string]int
	clicks          []string
	closed          bool
	shotBeforeClose bool
}

func newFakeSite(steps int) *fakeSite {
	return &fakeSite{
		steps: steps,
		options: []ports.SelectOption{
			{Label: "-- choose --", Value: ""},
			{Label: "Visa D", Value: "visa"},
			{Label: "Master student", Value: "master"},
		},
		errorsAt:   map[int]int{},
		screenshot: []byte("png"),
		waits:      map[string]int{},
	}
}

func (s *fakeSite) buttons() []string {
	if s.onError {
		if s.noBack {
			return []string{"Home"}
		}
		return []string{"Back"}
	}
	var out []string
	if s.pos > 0 {
		out = append(out, "Back")
	}
	if !s.noNext && s.pos < s.steps {
		out = append(out, "Next")
	}
	return append(out, "Home")
}

func (s *fakeSite) count(selector string) int {
	switch selector {
	case testService:
		if s.pos == 0 && !s.onError {
			return 1
		}
	case testSubmit:
		return len(s.buttons())
	case testChoices:
		if s.pos == s.steps && !s.onError {
			return s.choices
		}
	}
	return 0
}

func (s *fakeSite) click(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, label)
	switch label {
	case "Next":
		s.pos++
		if s.errorsAt[s.pos] > 0 {
			s.errorsAt[s.pos]--
			s.onError = true
		} else {
			s.onError = false
		}
	case "Back":
		s.onError = false
		s.pos -= 2
		if s.pos < 0 {
			s.pos = 0
		}
	}
}

func (s *fakeSite) clickCount(label string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.clicks {
		if c == label {
			n++
		}
	}
	return n
}

func (s *fakeSite) Goto(_ context.Context, _ string, _ time.Duration) error {
	return s.gotoErr
}

func (s *fakeSite) WaitForSelector(_ context.Context, selector string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits[selector]++
	if s.count(selector) == 0 {
		return errAbsent
	}
	return nil
}

func (s *fakeSite) QueryAll(_ context.Context, selector string) ([]ports.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selector == testSubmit {
		var els []ports.Element
		for _, b := range s.buttons() {
			els = append(els, &fakeControl{site: s, value: b})
		}
		return els, nil
	}
	els := make([]ports.Element, s.count(selector))
	for i := range els {
		els[i] = &fakeControl{site: s}
	}
	return els, nil
}

func (s *fakeSite) Text(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onError {
		return errorText, nil
	}
	return normalText, nil
}

func (s *fakeSite) Options(context.Context, string) ([]ports.SelectOption, error) {
	return s.options, nil
}

func (s *fakeSite) Select(_ context.Context, _ string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = value
	return nil
}

func (s *fakeSite) Screenshot(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shotBeforeClose = !s.closed
	return s.screenshot, s.screenshotErr
}

func (s *fakeSite) URL() string { return "https://example.test/slots" }

func (s *fakeSite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeControl struct {
	site  *fakeSite
	value string
}

func (c *fakeControl) Value(context.Context) (string, error) { return c.value, nil }

func (c *fakeControl) ClickAndWait(context.Context, time.Duration) error {
	c.site.click(c.value)
	return nil
}

type fakeSession struct {
	page    *fakeSite
	pageErr error
}

func (s *fakeSession) NewPage(context.Context) (ports.Page, error) {
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.page, nil
}

func (s *fakeSession) Close() error { return nil }

// fakeClock records sleeps instead of sleeping.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return ctx.Err()
}

func testConfig(steps int) domain.Config {
	return domain.Config{
		Target: domain.TargetSettings{
			EntryURL:       "https://example.test/?Office=Kairo",
			ServiceKeyword: "master",
			Steps:          steps,
		},
		Navigation: domain.NavigationSettings{
			Timeout:               time.Second,
			WaitRetries:           3,
			RetryDelay:            time.Second,
			RecoveryLimit:         3,
			ForwardStepsAfterBack: 2,
		},
		Labels: domain.LabelSettings{
			Next: []string{"Next", "التالى"},
			Back: []string{"Back", "السابق"},
		},
		ErrorMarkers: []string{"unfortunately", "vergeben"},
		Selectors: domain.SelectorSettings{
			Service: testService,
			Choices: testChoices,
			Submit:  testSubmit,
		},
	}
}

func newTestNavigator(steps int) (*Navigator, *fakeClock) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	return New(testConfig(steps), clk, logger.Nop()), clk
}
