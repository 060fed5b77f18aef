package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/pkg/logger"
)

const testToken = "123:ABC"

type recordedRequest struct {
	path  string
	query string
	body  map[string]interface{}
	form  map[string]string
	photo []byte
}

type fakeBotAPI struct {
	mu         sync.Mutex
	requests   []recordedRequest
	rejectMark bool
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{path: r.URL.Path, query: r.URL.RawQuery}
	switch {
	case strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"):
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
	case strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"):
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			rec.form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				rec.form[k] = v[0]
			}
			if file, _, err := r.FormFile("photo"); err == nil {
				rec.photo, _ = io.ReadAll(file)
				file.Close()
			}
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/bot" + testToken + "/sendMessage":
		if f.rejectMark && rec.body["parse_mode"] != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: can't parse entities: Can't find end of the entity"}`)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1}}`)
	case "/bot" + testToken + "/sendPhoto":
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":2}}`)
	case "/bot" + testToken + "/getUpdates":
		_, _ = io.WriteString(w, `{"ok":true,"result":[
			{"update_id":10,"message":{"message_id":5,"from":{"id":77,"first_name":"Omar","username":"omar"},"chat":{"id":77},"text":"/status"}},
			{"update_id":11}
		]}`)
	case "/bot" + testToken + "/getMe":
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"first_name":"Dates","username":"datesmon_bot"}}`)
	default:
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}
}

func (f *fakeBotAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, api *fakeBotAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, testToken, time.Second)
}

func TestSendTextPostsMarkdown(t *testing.T) {
	api := &fakeBotAPI{}
	client := newTestClient(t, api)

	require.NoError(t, client.SendText(context.Background(), 42, "*hello*"))

	req := api.last()
	require.Equal(t, "/bot"+testToken+"/sendMessage", req.path)
	require.Equal(t, float64(42), req.body["chat_id"])
	require.Equal(t, "*hello*", req.body["text"])
	require.Equal(t, "Markdown", req.body["parse_mode"])
}

func TestSendTextFallsBackToPlainText(t *testing.T) {
	api := &fakeBotAPI{rejectMark: true}
	client := newTestClient(t, api)

	require.NoError(t, client.SendText(context.Background(), 42, "reason element_not_found"))

	require.Len(t, api.requests, 2)
	require.Nil(t, api.last().body["parse_mode"])
}

func TestSendTextTruncatesLongMessages(t *testing.T) {
	api := &fakeBotAPI{}
	client := newTestClient(t, api)

	require.NoError(t, client.SendText(context.Background(), 1, strings.Repeat("ب", 5000)))

	text, _ := api.last().body["text"].(string)
	require.Len(t, []rune(text), maxMessageRunes)
	require.True(t, strings.HasSuffix(text, "(truncated)"))
}

func TestSendImageUploadsMultipart(t *testing.T) {
	api := &fakeBotAPI{}
	client := newTestClient(t, api)

	require.NoError(t, client.SendImage(context.Background(), -100, []byte("\x89PNG"), "slots!"))

	req := api.last()
	require.Equal(t, "/bot"+testToken+"/sendPhoto", req.path)
	require.Equal(t, "-100", req.form["chat_id"])
	require.Equal(t, "slots!", req.form["caption"])
	require.Equal(t, []byte("\x89PNG"), req.photo)
}

func TestGetUpdates(t *testing.T) {
	api := &fakeBotAPI{}
	client := newTestClient(t, api)

	updates, err := client.GetUpdates(context.Background(), 10, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	require.Equal(t, int64(77), updates[0].Message.Chat.ID)
	require.Equal(t, "/status", updates[0].Message.Text)
	require.Nil(t, updates[1].Message)
	require.Contains(t, api.last().query, "offset=10")
	require.Contains(t, api.last().query, "timeout=30")
}

func TestIdentity(t *testing.T) {
	client := newTestClient(t, &fakeBotAPI{})

	name, err := client.Identity(context.Background())
	require.NoError(t, err)
	require.Equal(t, "datesmon_bot", name)
}

func TestAPIErrorsAreTyped(t *testing.T) {
	srv := httptest.NewServer(&fakeBotAPI{})
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "wrong", time.Second)

	err := client.SendText(context.Background(), 1, "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	require.Equal(t, 401, apiErr.Code)
	require.Equal(t, "Unauthorized", apiErr.Description)
}

func TestTransportErrorsHideToken(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", testToken, time.Second)

	err := client.SendText(context.Background(), 1, "x")
	require.Error(t, err)
	require.NotContains(t, err.Error(), testToken)
}

type scriptedSource struct {
	batches [][]Update
	errs    []error
	offsets []int64
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]Update, error) {
	s.offsets = append(s.offsets, offset)
	i := len(s.offsets) - 1
	if i >= len(s.batches) {
		s.cancel()
		return nil, ctx.Err()
	}
	return s.batches[i], s.errs[i]
}

type recordingHandler struct {
	msgs []domain.InboundMessage
	err  error
}

func (h *recordingHandler) HandleMessage(_ context.Context, msg domain.InboundMessage) error {
	h.msgs = append(h.msgs, msg)
	return h.err
}

type sleepRecorder struct{ sleeps []time.Duration }

func (c *sleepRecorder) Now() time.Time { return time.Time{} }

func (c *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return ctx.Err()
}

func TestPollerDispatchesAndTracksOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msg := func(id, chat int64, text string) Update {
		return Update{UpdateID: id, Message: &Message{Chat: Chat{ID: chat}, From: &User{FirstName: "Omar"}, Text: text}}
	}
	source := &scriptedSource{
		batches: [][]Update{
			{msg(5, 1, "hi"), {UpdateID: 6}},
			nil,
			{msg(7, 2, "/status")},
		},
		errs:   []error{nil, errors.New("502 bad gateway"), nil},
		cancel: cancel,
	}
	handler := &recordingHandler{err: errors.New("ignored")}
	clock := &sleepRecorder{}
	p := &Poller{Source: source, Handler: handler, Timeout: time.Second, Backoff: 5 * time.Second, Clock: clock, Logger: logger.Nop()}

	require.NoError(t, p.Run(ctx))

	require.Equal(t, []int64{0, 7, 7, 8}, source.offsets)
	require.Equal(t, []domain.InboundMessage{
		{ChatID: 1, Username: "Omar", Text: "hi"},
		{ChatID: 2, Username: "Omar", Text: "/status"},
	}, handler.msgs)
	require.Equal(t, []time.Duration{5 * time.Second}, clock.sleeps)
}
