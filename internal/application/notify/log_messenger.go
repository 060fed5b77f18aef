package notify

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// LogMessenger implements ports.Messenger by logging instead of delivering.
// It backs dry runs and runs without a bot token.
type LogMessenger struct {
	Logger ports.Logger
}

func (m LogMessenger) SendText(_ context.Context, to domain.RecipientID, text string) error {
	m.Logger.Info("message (not sent)", map[string]interface{}{"recipient": to.String(), "text": text})
	return nil
}

func (m LogMessenger) SendImage(_ context.Context, to domain.RecipientID, image []byte, caption string) error {
	m.Logger.Info("photo (not sent)", map[string]interface{}{
		"recipient": to.String(),
		"caption":   caption,
		"size":      humanize.Bytes(uint64(len(image))),
	})
	return nil
}
