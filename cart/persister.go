package cart

import (
	"context"
	"sync"
	"time"

	"campus-canteen/database"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Persister stores opaque blobs per session and key. Load returns nil, nil
// when nothing is stored.
type Persister interface {
	Load(ctx context.Context, session, key string) ([]byte, error)
	Save(ctx context.Context, session, key string, blob []byte) error
	Delete(ctx context.Context, session, key string) error
}

// MongoPersister keeps blobs in the cart_sessions collection.
type MongoPersister struct {
	coll *mongo.Collection
}

func NewMongoPersister(db *mongo.Database) *MongoPersister {
	return &MongoPersister{coll: db.Collection(database.CartSessionCollection)}
}

type blobDoc struct {
	SessionID string    `bson:"session_id"`
	Key       string    `bson:"key"`
	Blob      string    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (p *MongoPersister) Load(ctx context.Context, session, key string) ([]byte, error) {
	var doc blobDoc
	err := p.coll.FindOne(ctx, bson.M{"session_id": session, "key": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", key)
	}
	return []byte(doc.Blob), nil
}

func (p *MongoPersister) Save(ctx context.Context, session, key string, blob []byte) error {
	filter := bson.M{"session_id": session, "key": key}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "blob", Value: string(blob)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	_, err := p.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return errors.Wrapf(err, "save %s", key)
}

func (p *MongoPersister) Delete(ctx context.Context, session, key string) error {
	_, err := p.coll.DeleteOne(ctx, bson.M{"session_id": session, "key": key})
	return errors.Wrapf(err, "delete %s", key)
}

// MemoryPersister keeps blobs in a map.
type MemoryPersister struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{blobs: map[string][]byte{}}
}

func (p *MemoryPersister) Load(_ context.Context, session, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	blob, ok := p.blobs[session+"/"+key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (p *MemoryPersister) Save(_ context.Context, session, key string, blob []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blobs[session+"/"+key] = append([]byte(nil), blob...)
	return nil
}

func (p *MemoryPersister) Delete(_ context.Context, session, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.blobs, session+"/"+key)
	return nil
}
