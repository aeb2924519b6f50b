// Package notifications keeps the admin alert list for new orders. Nothing
// here survives a restart.
package notifications

import (
	"context"
	"sync"
	"time"

	"campus-canteen/feed"
	"campus-canteen/logger"
	"campus-canteen/models"

	"github.com/google/uuid"
)

// Limit is how many notifications an inbox keeps.
const Limit = 20

// Inbox holds notifications newest first.
type Inbox struct {
	mu    sync.Mutex
	items []models.Notification
}

// Add prepends a notification for order, dropping the oldest past Limit.
func (in *Inbox) Add(order models.Order, at time.Time) models.Notification {
	n := models.Notification{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		StudentName: order.StudentName,
		OrderType:   order.OrderType,
		CreatedAt:   at,
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = append([]models.Notification{n}, in.items...)
	if len(in.items) > Limit {
		in.items = in.items[:Limit]
	}
	return n
}

func (in *Inbox) List() []models.Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]models.Notification{}, in.items...)
}

func (in *Inbox) MarkAllRead() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.items {
		in.items[i].Read = true
	}
}

func (in *Inbox) Clear() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = nil
}

func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := 0
	for _, it := range in.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// Registry hands out one inbox per admin user.
type Registry struct {
	mu      sync.Mutex
	inboxes map[string]*Inbox
	log     *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{inboxes: map[string]*Inbox{}, log: log.WithComponent("notifications")}
}

// For returns uid's inbox, creating it on first use.
func (r *Registry) For(uid string) *Inbox {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.inboxes[uid]
	if !ok {
		in = &Inbox{}
		r.inboxes[uid] = in
	}
	return in
}

// Notify adds order to every inbox. Admins who have not opened theirs yet
// start with an empty one.
func (r *Registry) Notify(order models.Order, at time.Time) {
	r.mu.Lock()
	inboxes := make([]*Inbox, 0, len(r.inboxes))
	for _, in := range r.inboxes {
		inboxes = append(inboxes, in)
	}
	r.mu.Unlock()
	for _, in := range inboxes {
		in.Add(order, at)
	}
}

// Track consumes a hub subscription and notifies on every insert that carries
// its order. It returns when ctx ends or the hub closes.
func (r *Registry) Track(ctx context.Context, hub *feed.Hub) error {
	sub := hub.Subscribe(64)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if ev.Type != feed.Insert || ev.Order == nil {
				continue
			}
			r.Notify(*ev.Order, ev.At)
			r.log.Debug("new order notification", "order_id", ev.OrderID)
		}
	}
}
