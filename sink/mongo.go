package sink

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weiihann/taipan/harness"
)

// Mongo inserts each record as a document into a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to uri and targets database.collection.
func NewMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// NewMongoCollection wraps an existing collection. The caller owns the
// client.
func NewMongoCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

func (m *Mongo) Send(ctx context.Context, r harness.Result) error {
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	return nil
}

// Close disconnects the client created by NewMongo.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}

	return m.client.Disconnect(ctx)
}
