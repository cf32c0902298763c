package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/i474232898/weather-logbook/internal/weather"
)

// defaultDatabase is used when the connection URI names no database.
const defaultDatabase = "test"

// Connect dials MongoDB and verifies the connection with a ping.
// It returns the client and the database named in the URI.
func Connect(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(DatabaseName(uri)), nil
}

// DatabaseName extracts the database from a mongodb:// or mongodb+srv:// URI.
func DatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}

// MongoStore is a weather.Store backed by a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
	clock      clockwork.Clock
}

// NewMongoStore creates a new MongoStore. A nil clock uses real time.
func NewMongoStore(db *mongo.Database, collectionName string, clock clockwork.Clock) *MongoStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MongoStore{
		collection: db.Collection(collectionName),
		clock:      clock,
	}
}

// Create inserts a new record.
func (s *MongoStore) Create(ctx context.Context, f weather.Fields) (weather.Record, error) {
	rec := weather.Record{
		ID:        primitive.NewObjectID(),
		Fields:    f,
		CreatedAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		return weather.Record{}, err
	}
	return rec, nil
}

// List returns every record in natural order.
func (s *MongoStore) List(ctx context.Context) ([]weather.Record, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recs := []weather.Record{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Update sets the supplied fields and returns the updated record.
func (s *MongoStore) Update(ctx context.Context, id string, patch weather.Fields) (weather.Record, error) {
	oid, err := ParseID(id)
	if err != nil {
		return weather.Record{}, err
	}

	filter := bson.M{"_id": oid}

	var res *mongo.SingleResult
	if patch.IsEmpty() {
		// $set with an empty document is rejected by the server.
		res = s.collection.FindOne(ctx, filter)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		res = s.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": setDocument(patch)}, opts)
	}

	var rec weather.Record
	if err := res.Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return weather.Record{}, ErrNotFound
		}
		return weather.Record{}, err
	}
	return rec, nil
}

// Delete removes the record with the given id, if any.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	_, err = s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// Ping checks the connection to the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, readpref.Primary())
}

// setDocument builds the $set document for the fields present in patch.
func setDocument(patch weather.Fields) bson.M {
	set := bson.M{}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.DateRange != nil {
		set["dateRange"] = *patch.DateRange
	}
	if patch.Temperature != nil {
		set["temperature"] = *patch.Temperature
	}
	if patch.Humidity != nil {
		set["humidity"] = *patch.Humidity
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	return set
}
