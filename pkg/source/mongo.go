package source

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/versegraph/versegraph/pkg/errors"
	"github.com/versegraph/versegraph/pkg/graph"
)

const mongoConnectTimeout = 10 * time.Second

// MongoSource serves payloads from a MongoDB collection holding one document
// per verse, keyed by the osis field. The wire types carry bson tags, so
// documents round-trip through the driver without an intermediate shape.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSource connects to MongoDB at uri and binds to db/collection.
// The connection is verified with a ping before returning.
func NewMongoSource(ctx context.Context, uri, db, collection string) (*MongoSource, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "connect mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "ping mongodb")
	}

	return &MongoSource{
		client: client,
		coll:   client.Database(db).Collection(collection),
	}, nil
}

// Fetch retrieves the payload document for osis.
func (s *MongoSource) Fetch(ctx context.Context, osis string) (graph.Payload, error) {
	var p graph.Payload
	if err := errors.ValidateOSIS(osis); err != nil {
		return p, err
	}

	err := s.coll.FindOne(ctx, bson.M{"osis": osis}).Decode(&p)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return graph.Payload{}, errors.New(errors.ErrCodeNoGraphData, "no graph data for %s", osis)
	}
	if err != nil {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeFetchFailed, err, "query graph for %s", osis)
	}
	return p, nil
}

// Put stores a payload, replacing any existing document for the same verse.
// Used by the ingest command to load local payload files into the store.
func (s *MongoSource) Put(ctx context.Context, p graph.Payload) error {
	if err := errors.ValidateOSIS(p.OSIS); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"osis": p.OSIS}, p,
		mongooptions.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeFetchFailed, err, "store graph for %s", p.OSIS)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoSource implements Source.
var _ Source = (*MongoSource)(nil)
