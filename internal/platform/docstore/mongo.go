package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoRecord is the stored shape. The document is kept as its JSON text so
// that BSON conversion cannot reorder or retype fields.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoDocuments interface {
	find(ctx context.Context, id string) (*mongoRecord, error)
	replace(ctx context.Context, rec *mongoRecord) error
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (m mongoCollection) find(ctx context.Context, id string) (*mongoRecord, error) {
	var rec mongoRecord
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m mongoCollection) replace(ctx context.Context, rec *mongoRecord) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	return err
}

// MongoBackend stores the document in one record of a collection.
type MongoBackend struct {
	client *mongo.Client
	docs   mongoDocuments
	docID  string
	now    func() time.Time
}

// NewMongoBackend connects to uri and uses database.collection.
func NewMongoBackend(ctx context.Context, uri, database, collection, docID string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	b := newMongoBackend(mongoCollection{coll: client.Database(database).Collection(collection)}, docID)
	b.client = client
	return b, nil
}

func newMongoBackend(docs mongoDocuments, docID string) *MongoBackend {
	if docID == "" {
		docID = DefaultDocumentID
	}
	return &MongoBackend{docs: docs, docID: docID, now: time.Now}
}

func (m *MongoBackend) Name() string { return "mongo" }

func (m *MongoBackend) Read(ctx context.Context) ([]byte, error) {
	rec, err := m.docs.find(ctx, m.docID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return []byte(rec.Body), nil
}

func (m *MongoBackend) Write(ctx context.Context, data []byte) error {
	rec := &mongoRecord{ID: m.docID, Body: string(data), UpdatedAt: m.now().UTC()}
	if err := m.docs.replace(ctx, rec); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (m *MongoBackend) Ping(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoBackend) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
