// Package notify fans alerts out to a recipient set over a single-recipient
// messenger.
package notify

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Fanout implements ports.NotificationGateway. Delivery is sequential and a
// failing recipient never stops delivery to the rest.
type Fanout struct {
	messenger     ports.Messenger
	maxImageBytes int
	logger        ports.Logger
}

// NewFanout creates a gateway. maxImageBytes <= 0 selects the default cap.
func NewFanout(messenger ports.Messenger, maxImageBytes int, log ports.Logger) *Fanout {
	if maxImageBytes <= 0 {
		maxImageBytes = domain.DefaultMaxImageBytes
	}
	return &Fanout{messenger: messenger, maxImageBytes: maxImageBytes, logger: log}
}

func (f *Fanout) SendText(ctx context.Context, recipients []domain.RecipientID, message string) domain.DeliveryReport {
	var report domain.DeliveryReport
	for _, id := range recipients {
		if err := f.messenger.SendText(ctx, id, message); err != nil {
			report.Failed++
			f.logger.Error("failed to send message", err, map[string]interface{}{"recipient": id.String()})
			continue
		}
		report.Delivered++
	}
	return report
}

func (f *Fanout) SendImage(ctx context.Context, recipients []domain.RecipientID, image []byte, caption string) domain.DeliveryReport {
	var report domain.DeliveryReport
	if len(image) > f.maxImageBytes {
		f.logger.Warn("image exceeds upload limit, skipping", map[string]interface{}{
			"size":       humanize.IBytes(uint64(len(image))),
			"limit":      humanize.IBytes(uint64(f.maxImageBytes)),
			"recipients": len(recipients),
		})
		report.Skipped = len(recipients)
		return report
	}
	for _, id := range recipients {
		if err := f.messenger.SendImage(ctx, id, image, caption); err != nil {
			report.Failed++
			f.logger.Error("failed to send photo", err, map[string]interface{}{"recipient": id.String()})
			continue
		}
		report.Delivered++
	}
	return report
}
