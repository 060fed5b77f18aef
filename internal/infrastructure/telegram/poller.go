package telegram

import (
	"context"
	"time"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// UpdateSource yields bot updates; *Client is the production source.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// Poller runs the getUpdates long-poll loop and hands text messages to a
// handler one at a time.
type Poller struct {
	Source  UpdateSource
	Handler ports.MessageHandler
	Timeout time.Duration
	Backoff time.Duration
	Clock   ports.Clock
	Logger  ports.Logger
}

// Run polls until ctx is cancelled. Polling errors are logged and retried
// after Backoff.
func (p *Poller) Run(ctx context.Context) error {
	p.Logger.Info("telegram listener started", nil)
	var offset int64
	for ctx.Err() == nil {
		updates, err := p.Source.GetUpdates(ctx, offset, p.Timeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			p.Logger.Warn("telegram polling error", map[string]interface{}{
				"error":   err.Error(),
				"backoff": p.Backoff.String(),
			})
			if err := p.Clock.Sleep(ctx, p.Backoff); err != nil {
				break
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			p.dispatch(ctx, u)
		}
	}
	p.Logger.Info("telegram listener stopped", nil)
	return nil
}

func (p *Poller) dispatch(ctx context.Context, u Update) {
	if u.Message == nil || u.Message.Chat.ID == 0 {
		return
	}
	msg := domain.InboundMessage{
		ChatID: domain.RecipientID(u.Message.Chat.ID),
		Text:   u.Message.Text,
	}
	if u.Message.From != nil {
		msg.Username = u.Message.From.Username
		if msg.Username == "" {
			msg.Username = u.Message.From.FirstName
		}
	}
	if err := p.Handler.HandleMessage(ctx, msg); err != nil {
		p.Logger.Error("failed to handle telegram message", err, map[string]interface{}{
			"chat_id":   msg.ChatID.String(),
			"update_id": u.UpdateID,
		})
	}
}
