package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const documentsCollection = "documents"

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDocumentStore keeps every document as one entry of the "documents"
// collection keyed by name, with the JSON text in the payload field.
type MongoDocumentStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{
		db:   db,
		coll: db.Collection(documentsCollection),
	}
}

func (m *MongoDocumentStore) Load(ctx context.Context, name string) ([]byte, error) {
	var doc mongoDocument
	err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return []byte(doc.Payload), nil
}

func (m *MongoDocumentStore) Save(ctx context.Context, name string, data []byte) error {
	doc := mongoDocument{
		ID:        name,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := m.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: name}}, doc, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoDocumentStore) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}
