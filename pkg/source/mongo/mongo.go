// Package mongo loads bean records from a MongoDB collection.
//
// Each document of the collection is one bean record; documents are read in
// natural order so the record sequence matches insertion order. Importing
// the package registers the "mongo" source kind.
package mongo

import (
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/source"
)

// ConnectTimeout bounds connection setup and server selection.
const ConnectTimeout = 10 * time.Second

func init() {
	source.Register(config.SourceMongo, func(cfg config.Source) (source.Loader, error) {
		return &Loader{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		}, nil
	})
}

// Loader reads every document of Database.Collection at URI.
type Loader struct {
	URI        string
	Database   string
	Collection string
}

// Load connects, reads all documents and disconnects.
func (l *Loader) Load(ctx context.Context) ([]bean.Record, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(l.URI).
		SetConnectTimeout(ConnectTimeout).
		SetServerSelectionTimeout(ConnectTimeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	coll := client.Database(l.Database).Collection(l.Collection)
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "query %s.%s", l.Database, l.Collection)
	}
	defer cur.Close(ctx)

	var docs []bson.Raw
	for cur.Next(ctx) {
		// Current is only valid until the next call to Next.
		docs = append(docs, slices.Clone(cur.Current))
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s.%s", l.Database, l.Collection)
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeSourceNotFound, "collection %s.%s has no bean records", l.Database, l.Collection)
	}
	return Decode(docs), nil
}

// Decode converts raw documents to records with [bean.RecordFromFields].
// Documents that cannot be decoded at all are skipped.
func Decode(docs []bson.Raw) []bean.Record {
	records := make([]bean.Record, 0, len(docs))
	for _, doc := range docs {
		var fields bson.M
		if err := bson.Unmarshal(doc, &fields); err != nil {
			continue
		}
		for k, v := range fields {
			if a, ok := v.(bson.A); ok {
				fields[k] = []any(a)
			}
		}
		records = append(records, bean.RecordFromFields(fields))
	}
	return records
}

// String returns a description of the collection without credentials.
func (l *Loader) String() string {
	return "mongo:" + l.Database + "." + l.Collection
}
