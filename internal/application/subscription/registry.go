// Package subscription keeps the recipient set and answers the bot's inbound
// messages.
package subscription

import (
	"context"
	"fmt"
	"sync"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// Registry is the in-memory subscriber set backed by a persistent store. The
// operator is always a member and is never persisted.
type Registry struct {
	store    ports.SubscriberStore
	operator domain.RecipientID
	logger   ports.Logger

	mu  sync.RWMutex
	ids map[domain.RecipientID]struct{}
}

// NewRegistry creates a registry holding only the operator until Load runs.
func NewRegistry(store ports.SubscriberStore, operator domain.RecipientID, log ports.Logger) *Registry {
	r := &Registry{
		store:    store,
		operator: operator,
		logger:   log,
		ids:      make(map[domain.RecipientID]struct{}),
	}
	if operator != 0 {
		r.ids[operator] = struct{}{}
	}
	return r
}

// Load merges the persisted ids into the set.
func (r *Registry) Load(ctx context.Context) error {
	ids, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load subscribers: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if id != 0 {
			r.ids[id] = struct{}{}
		}
	}
	r.logger.Info("subscribers loaded", map[string]interface{}{"count": len(r.ids)})
	return nil
}

// Add registers id and persists it. It reports false when id was already
// subscribed.
func (r *Registry) Add(ctx context.Context, id domain.RecipientID) (bool, error) {
	if id == 0 {
		return false, fmt.Errorf("invalid recipient id 0")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[id]; ok {
		return false, nil
	}
	if _, err := r.store.Add(ctx, id); err != nil {
		return false, fmt.Errorf("persist subscriber %s: %w", id, err)
	}
	r.ids[id] = struct{}{}
	return true, nil
}

// All returns a sorted snapshot of the set.
func (r *Registry) All() []domain.RecipientID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]domain.RecipientID, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	return domain.UniqueRecipients(ids...)
}

// Count returns the number of subscribers, operator included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
