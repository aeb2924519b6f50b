package feed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"campus-canteen/logger"
	"campus-canteen/models"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHubBroadcasts(t *testing.T) {
	h := NewHub()
	a := h.Subscribe(4)
	b := h.Subscribe(4)

	h.Publish(context.Background(), OrderEvent(Insert, &models.Order{ID: 7}))

	for name, sub := range map[string]*Subscription{"a": a, "b": b} {
		select {
		case ev := <-sub.C:
			if ev.Type != Insert || ev.OrderID != 7 {
				t.Errorf("%s got %+v", name, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s received nothing", name)
		}
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1)
	ctx := context.Background()

	h.Publish(ctx, OrderEvent(Insert, &models.Order{ID: 1}))
	h.Publish(ctx, OrderEvent(Insert, &models.Order{ID: 2}))

	ev := <-sub.C
	if ev.OrderID != 1 {
		t.Errorf("first event = %d, want 1", ev.OrderID)
	}
	select {
	case ev := <-sub.C:
		t.Errorf("unexpected buffered event %+v", ev)
	default:
	}
}

func TestSubscriptionClose(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1)
	sub.Close()
	sub.Close()

	if _, ok := <-sub.C; ok {
		t.Error("channel still open after Close")
	}
	if h.Subscribers() != 0 {
		t.Errorf("subscribers = %d, want 0", h.Subscribers())
	}
	h.Publish(context.Background(), OrderEvent(Reset, nil))
}

func TestHubCloseEndsSubscriptions(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1)
	h.Close()
	if _, ok := <-sub.C; ok {
		t.Error("subscription open after hub close")
	}
	late := h.Subscribe(1)
	if _, ok := <-late.C; ok {
		t.Error("subscribe after close returned an open channel")
	}
	sub.Close()
}

func TestToEvent(t *testing.T) {
	order := &models.Order{ID: 12}
	tests := []struct {
		op     string
		want   EventType
		wantOK bool
	}{
		{"insert", Insert, true},
		{"update", Update, true},
		{"replace", Update, true},
		{"delete", Delete, true},
		{"drop", Reset, true},
		{"createIndexes", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			ev, ok := toEvent(changeDoc{OperationType: tt.op, FullDocument: order, ClusterTime: primitive.Timestamp{T: 1700000000}})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ev.Type != tt.want || ev.OrderID != 12 || ev.Table != "orders" {
				t.Errorf("event = %+v", ev)
			}
			if !ev.At.Equal(time.Unix(1700000000, 0)) {
				t.Errorf("at = %v", ev.At)
			}
		})
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSinkKeysByOrder(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{w: w}
	if err := sink.Write(context.Background(), OrderEvent(Insert, &models.Order{ID: 42, StudentName: "Sara"})); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "42" {
		t.Errorf("key = %q", w.msgs[0].Key)
	}
	var ev Event
	if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Order == nil || ev.Order.StudentName != "Sara" {
		t.Errorf("payload = %+v", ev)
	}
	_ = sink.Close()
	if !w.closed {
		t.Error("writer not closed")
	}
}

type recordingSink struct {
	got  chan Event
	fail bool
}

func (r *recordingSink) Write(_ context.Context, ev Event) error {
	r.got <- ev
	if r.fail {
		return errors.New("broker down")
	}
	return nil
}

func (r *recordingSink) Close() error { return nil }

func TestForwardSurvivesSinkErrors(t *testing.T) {
	h := NewHub()
	sink := &recordingSink{got: make(chan Event, 2), fail: true}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	sub := h.Subscribe(4)
	go func() { done <- Forward(ctx, sub, sink, logger.Discard()) }()

	h.Publish(ctx, OrderEvent(Insert, &models.Order{ID: 1}))
	h.Publish(ctx, OrderEvent(Update, &models.Order{ID: 1}))
	for i := 0; i < 2; i++ {
		select {
		case <-sink.got:
		case <-time.After(time.Second):
			t.Fatalf("event %d not forwarded", i)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Forward returned %v", err)
	}
}
