// Package feed fans order-table changes out to the admin views. Consumers
// treat every event as "something changed" and re-read what they show.
package feed

import (
	"context"
	"time"

	"campus-canteen/models"
)

type EventType string

const (
	Insert EventType = "insert"
	Update EventType = "update"
	Delete EventType = "delete"
	Reset  EventType = "reset"
)

// Event is one change to the orders table. Order is set when the source had
// the row at hand.
type Event struct {
	Type    EventType     `json:"type"`
	Table   string        `json:"table"`
	OrderID int64         `json:"order_id,omitempty"`
	Order   *models.Order `json:"order,omitempty"`
	At      time.Time     `json:"at"`
}

// OrderEvent builds an event for the orders table stamped with the current
// time.
func OrderEvent(t EventType, o *models.Order) Event {
	ev := Event{Type: t, Table: "orders", Order: o, At: time.Now().UTC()}
	if o != nil {
		ev.OrderID = o.ID
	}
	return ev
}

// Chime describes the audio cue the admin client plays for a new order.
type Chime struct {
	Waveform    string  `json:"waveform"`
	FrequencyHz float64 `json:"frequency_hz"`
	DurationMs  int     `json:"duration_ms"`
	Gain        float64 `json:"gain"`
}

var NewOrderChime = Chime{Waveform: "sine", FrequencyHz: 880, DurationMs: 300, Gain: 0.3}

// Publisher accepts events from the code that writes orders.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type discard struct{}

func (discard) Publish(context.Context, Event) {}

// Discard drops everything. Writers use it when another source, such as a
// change stream, already reports their changes.
var Discard Publisher = discard{}
