package feed

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"campus-canteen/logger"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// Sink receives a copy of every event, e.g. to export it.
type Sink interface {
	Write(ctx context.Context, ev Event) error
	Close() error
}

// Forward copies events from sub into sink until ctx ends or the
// subscription closes. Write errors are logged and skipped.
func Forward(ctx context.Context, sub *Subscription, sink Sink, log *logger.Logger) error {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := sink.Write(ctx, ev); err != nil {
				log.Warn("feed sink write failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
			}
		}
	}
}

// messageWriter is the part of *kafka.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON, keyed by order id, through an async
// writer.
type KafkaSink struct {
	w messageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{w: kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
	})}
}

func (k *KafkaSink) Write(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "encode feed event")
	}
	return k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: payload,
		Time:  time.Now(),
	})
}

func (k *KafkaSink) Close() error {
	return k.w.Close()
}
