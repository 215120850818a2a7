// internal/storage/mongostore.go
//
// MongoDB 後端：整份快照存成單一文件，_id 固定為 key，Save 以 upsert 取代。
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BackendMongo 為 MongoDB 後端寫入 Meta.Storage 的名稱。
const BackendMongo = "mongodb"

const (
	DefaultMongoDatabase   = "bankapp"
	DefaultMongoCollection = "snapshots"
	defaultSnapshotKey     = "current"
)

type snapshotDocument struct {
	Key      string `bson:"_id"`
	Snapshot `bson:",inline"`
}

func toDocument(key string, snap Snapshot) snapshotDocument {
	snap.Meta.Storage = BackendMongo
	if snap.Meta.Timestamp.IsZero() {
		snap.Meta.Timestamp = time.Now().UTC()
	}
	return snapshotDocument{Key: key, Snapshot: snap}
}

// MongoStore 以單一 collection 實作 Store。
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	key    string
	owned  bool
}

// NewMongoStore 連線至 uri 並使用 database/collection。
// Close 會一併中斷連線。
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	opts := options.Client().SetTimeout(6 * time.Second).ApplyURI(uri)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := NewMongoStoreWithClient(client, database, collection)
	s.owned = true
	return s, nil
}

// NewMongoStoreWithClient 使用既有連線；Close 不會中斷該連線。
func NewMongoStoreWithClient(client *mongo.Client, database, collection string) *MongoStore {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		key:    defaultSnapshotKey,
	}
}

func (s *MongoStore) Save(ctx context.Context, snap Snapshot) error {
	doc := toDocument(s.key, snap)
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.key}, doc, opts); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context) (Snapshot, error) {
	var doc snapshotDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return doc.Snapshot, nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
