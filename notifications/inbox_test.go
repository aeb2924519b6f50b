package notifications

import (
	"context"
	"testing"
	"time"

	"campus-canteen/feed"
	"campus-canteen/logger"
	"campus-canteen/models"
)

func TestInboxCapsAtLimitNewestFirst(t *testing.T) {
	var in Inbox
	now := time.Now()
	for i := 1; i <= 25; i++ {
		in.Add(models.Order{ID: int64(i), StudentName: "Sara"}, now)
	}

	list := in.List()
	if len(list) != Limit {
		t.Fatalf("len = %d, want %d", len(list), Limit)
	}
	if list[0].OrderID != 25 {
		t.Errorf("newest = %d, want 25", list[0].OrderID)
	}
	if list[Limit-1].OrderID != 6 {
		t.Errorf("oldest kept = %d, want 6", list[Limit-1].OrderID)
	}
	if in.UnreadCount() != Limit {
		t.Errorf("unread = %d", in.UnreadCount())
	}
}

func TestInboxMarkReadAndClear(t *testing.T) {
	var in Inbox
	in.Add(models.Order{ID: 1}, time.Now())
	in.Add(models.Order{ID: 2}, time.Now())

	in.MarkAllRead()
	if in.UnreadCount() != 0 {
		t.Errorf("unread after mark = %d", in.UnreadCount())
	}
	in.Add(models.Order{ID: 3}, time.Now())
	if in.UnreadCount() != 1 {
		t.Errorf("unread = %d, want 1", in.UnreadCount())
	}

	in.Clear()
	if len(in.List()) != 0 {
		t.Error("list not empty after clear")
	}
}

func TestTrackNotifiesOnInsertOnly(t *testing.T) {
	hub := feed.NewHub()
	reg := NewRegistry(logger.Discard())
	admin := reg.For("admin-1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- reg.Track(ctx, hub) }()

	deadline := time.Now().Add(time.Second)
	for hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Track never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	hub.Publish(ctx, feed.OrderEvent(feed.Update, &models.Order{ID: 1}))
	hub.Publish(ctx, feed.OrderEvent(feed.Insert, nil))
	hub.Publish(ctx, feed.OrderEvent(feed.Insert, &models.Order{ID: 2, StudentName: "Abel", OrderType: models.OrderTypeDelivery}))

	for len(admin.List()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no notification arrived")
		}
		time.Sleep(time.Millisecond)
	}
	got := admin.List()
	if len(got) != 1 || got[0].OrderID != 2 || got[0].StudentName != "Abel" {
		t.Errorf("notifications = %+v", got)
	}

	hub.Close()
	if err := <-done; err != nil {
		t.Errorf("Track returned %v", err)
	}
}
