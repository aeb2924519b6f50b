package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence hands out increasing integer ids, one counter document per name.
type Sequence struct {
	counters *mongo.Collection
}

func NewSequence(db *mongo.Database) *Sequence {
	return &Sequence{counters: db.Collection(CounterCollection)}
}

// Next returns the next id for name, starting at 1.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	return s.Reserve(ctx, name, 1)
}

// Reserve allocates n consecutive ids and returns the first one.
func (s *Sequence) Reserve(ctx context.Context, name string, n int) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(n)}}}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq - int64(n) + 1, nil
}

// Restart drops the counter so the next id is 1 again.
func (s *Sequence) Restart(ctx context.Context, name string) error {
	_, err := s.counters.DeleteOne(ctx, bson.M{"_id": name})
	return err
}
