package source

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/site"
)

// MongoSource reads site records from a MongoDB collection. Each document
// in the collection is one site entry; ring-level settings (title,
// overrides) come from MongoOptions instead.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
	title  string
}

// MongoOptions configures a MongoSource.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Title      string
}

// NewMongoSource connects to MongoDB and verifies the connection.
func NewMongoSource(ctx context.Context, opts MongoOptions) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "pinging MongoDB")
	}
	return &MongoSource{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		title:  opts.Title,
	}, nil
}

// Load fetches every site record in the collection.
func (s *MongoSource) Load(ctx context.Context) (*Document, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "querying sites")
	}

	var sites []site.Site
	if err := cursor.All(ctx, &sites); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decoding sites")
	}

	doc := &Document{Title: s.title, Sites: sites}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Close disconnects the underlying client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
