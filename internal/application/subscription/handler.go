package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Bot commands.
const (
	CommandStart  = "/start"
	CommandStatus = "/status"
	CommandHelp   = "/help"
)

const helpText = "*Commands*\n" +
	"/start - subscribe to appointment alerts\n" +
	"/status - show monitor status\n" +
	"/help - show this message\n\n" +
	"Any other message also subscribes this chat."

// Handler implements ports.MessageHandler. Every inbound message subscribes
// its chat; commands are answered afterwards.
type Handler struct {
	registry  *Registry
	messenger ports.Messenger
	stats     ports.StatsProvider
	clock     ports.Clock
	cfg       domain.Config
	logger    ports.Logger
}

// NewHandler wires a handler. stats may be nil when no scheduler runs.
func NewHandler(cfg domain.Config, registry *Registry, messenger ports.Messenger, stats ports.StatsProvider, clock ports.Clock, log ports.Logger) *Handler {
	return &Handler{
		registry:  registry,
		messenger: messenger,
		stats:     stats,
		clock:     clock,
		cfg:       cfg,
		logger:    log,
	}
}

func (h *Handler) HandleMessage(ctx context.Context, msg domain.InboundMessage) error {
	added, err := h.registry.Add(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	if added {
		h.logger.Info("new chat subscribed", map[string]interface{}{
			"chat_id":  msg.ChatID.String(),
			"username": msg.Username,
		})
		reply := fmt.Sprintf("✅ You are now subscribed to appointment updates. Your ID: %s.", msg.ChatID)
		if err := h.messenger.SendText(ctx, msg.ChatID, reply); err != nil {
			return fmt.Errorf("confirm subscription: %w", err)
		}
	}

	switch command(msg.Text) {
	case CommandStatus:
		var stats domain.MonitorStats
		if h.stats != nil {
			stats = h.stats.Stats()
		}
		return h.messenger.SendText(ctx, msg.ChatID, StatusText(h.cfg, stats, h.registry.Count(), h.clock.Now()))
	case CommandHelp:
		return h.messenger.SendText(ctx, msg.ChatID, helpText)
	case CommandStart:
		if !added {
			return h.messenger.SendText(ctx, msg.ChatID, "You are already subscribed.")
		}
	}
	return nil
}

// command extracts "/cmd" from "/cmd@BotName args"; it returns "" for plain text.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}

// StatusText renders the /status reply.
func StatusText(cfg domain.Config, stats domain.MonitorStats, subscribers int, now time.Time) string {
	var b strings.Builder
	b.WriteString("🤖 *Bot Status: Running and Monitoring*\n\n")
	fmt.Fprintf(&b, "• *Check Interval:* Every %s.\n", formatSeconds(cfg.Schedule.Interval))
	if cfg.Schedule.RestartEvery > 0 {
		fmt.Fprintf(&b, "• *Browser Restarts:* Every %s checks (for stability).\n", humanize.Comma(int64(cfg.Schedule.RestartEvery)))
	} else {
		b.WriteString("• *Browser Restarts:* Disabled.\n")
	}
	fmt.Fprintf(&b, "• *Subscribers:* %d users.\n", subscribers)

	if stats.LastCheckAt.IsZero() {
		b.WriteString("• *Last Check:* none yet.\n")
	} else {
		fmt.Fprintf(&b, "• *Last Check:* %s (%s, took %s).\n",
			humanize.RelTime(stats.LastCheckAt, now, "ago", "from now"),
			lastResult(stats),
			stats.LastDuration.Round(10*time.Millisecond))
	}
	fmt.Fprintf(&b, "• *Cycles:* %d, *Slots Found:* %d, *Checks Since Restart:* %d.\n",
		stats.Cycles, stats.SlotsFound, stats.ChecksSinceRestart)
	if !stats.StartedAt.IsZero() {
		fmt.Fprintf(&b, "• *Running Since:* %s.\n", humanize.RelTime(stats.StartedAt, now, "ago", "from now"))
	}
	return b.String()
}

func lastResult(stats domain.MonitorStats) string {
	if stats.LastReason != "" {
		return fmt.Sprintf("%s: %s", stats.LastOutcome, stats.LastReason)
	}
	return stats.LastOutcome.String()
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs == 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", secs)
}
