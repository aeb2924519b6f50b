package feed

import (
	"context"
	"time"

	"campus-canteen/logger"
	"campus-canteen/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeStreamWatcher turns a MongoDB change stream on the orders collection
// into hub events. It needs a replica set.
type ChangeStreamWatcher struct {
	coll *mongo.Collection
	pub  Publisher
	log  *logger.Logger
}

func NewChangeStreamWatcher(orders *mongo.Collection, pub Publisher, log *logger.Logger) *ChangeStreamWatcher {
	return &ChangeStreamWatcher{coll: orders, pub: pub, log: log.WithComponent("changestream")}
}

type changeDoc struct {
	OperationType string              `bson:"operationType"`
	FullDocument  *models.Order       `bson:"fullDocument"`
	ClusterTime   primitive.Timestamp `bson:"clusterTime"`
}

// Run watches until ctx ends, returning nil then, or the stream's error.
func (w *ChangeStreamWatcher) Run(ctx context.Context) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := w.coll.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return errors.Wrap(err, "watch orders")
	}
	defer cs.Close(context.Background())

	w.log.Info("watching orders collection")
	for cs.Next(ctx) {
		var doc changeDoc
		if err := cs.Decode(&doc); err != nil {
			w.log.Warn("undecodable change event", "error", err)
			continue
		}
		if ev, ok := toEvent(doc); ok {
			w.pub.Publish(ctx, ev)
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return errors.Wrap(cs.Err(), "orders change stream")
}

func toEvent(doc changeDoc) (Event, bool) {
	var t EventType
	switch doc.OperationType {
	case "insert":
		t = Insert
	case "update", "replace":
		t = Update
	case "delete":
		t = Delete
	case "drop", "invalidate":
		t = Reset
	default:
		return Event{}, false
	}
	ev := OrderEvent(t, doc.FullDocument)
	if doc.ClusterTime.T != 0 {
		ev.At = time.Unix(int64(doc.ClusterTime.T), 0).UTC()
	}
	return ev, true
}
