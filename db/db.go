// Package db provides MongoDB-backed storage for the marketplace: parties,
// products, listings, orders, platform settings and stored objects.
package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.vocdoni.io/dvote/log"
)

const dbTimeout = 10 * time.Second

// MongoStorage uses an external MongoDB service for storing marketplace data.
type MongoStorage struct {
	client   *mongo.Client
	database string

	parties  *mongo.Collection
	products *mongo.Collection
	listings *mongo.Collection
	orders   *mongo.Collection
	settings *mongo.Collection
	objects  *mongo.Collection
}

// New connects to MongoDB and initializes the collections and indexes.
func New(url, database string) (*MongoStorage, error) {
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Infow("connecting to mongodb", "url", url, "database", database)
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := dbTimeout
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.database = database
	ms.initCollections(database)
	// if reset flag is enabled, drop the database documents and recreate
	// indexes, else just create indexes
	if reset := os.Getenv("GREEKMARKET_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
	} else if err := ms.createIndexes(); err != nil {
		return nil, err
	}
	return ms, nil
}

func (ms *MongoStorage) initCollections(database string) {
	db := ms.client.Database(database)
	ms.parties = db.Collection("parties")
	ms.products = db.Collection("products")
	ms.listings = db.Collection("listings")
	ms.orders = db.Collection("orders")
	ms.settings = db.Collection("settings")
	ms.objects = db.Collection("objects")
}

func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if _, err := ms.parties.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("cannot create parties email index: %w", err)
	}
	if _, err := ms.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sellerId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("cannot create products seller index: %w", err)
	}
	if _, err := ms.listings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "stewardId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("cannot create listings steward index: %w", err)
	}
	if _, err := ms.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("cannot create orders session index: %w", err)
	}
	return nil
}

// Close disconnects from the MongoDB server.
func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

// Reset drops all collections and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Infof("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	for _, collection := range []*mongo.Collection{
		ms.parties, ms.products, ms.listings, ms.orders, ms.settings, ms.objects,
	} {
		if err := collection.Drop(ctx); err != nil {
			return err
		}
	}
	return ms.createIndexes()
}

// String returns the name of the backing database.
func (ms *MongoStorage) String() string {
	return ms.database
}
