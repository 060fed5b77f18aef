package domain

import (
	"sort"
	"strconv"
)

// RecipientID identifies a notification target (a Telegram chat id).
type RecipientID int64

func (id RecipientID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseRecipientID parses a decimal chat id.
func ParseRecipientID(s string) (RecipientID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return RecipientID(v), nil
}

// UniqueRecipients drops duplicates and zero ids and sorts the result.
func UniqueRecipients(ids ...RecipientID) []RecipientID {
	seen := make(map[RecipientID]struct{}, len(ids))
	out := make([]RecipientID, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InboundMessage is a message received by the bot from a chat.
type InboundMessage struct {
	ChatID   RecipientID
	Username string
	Text     string
}

// DeliveryReport summarises one fan-out.
type DeliveryReport struct {
	Delivered int
	Skipped   int
	Failed    int
}
