package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greekmarket/marketplace-backend/internal"
)

// SetOrder creates or updates an order. The unique index on sessionId makes
// a duplicate write for the same checkout session fail instead of recording
// the payment twice.
func (ms *MongoStorage) SetOrder(order *Order) (internal.ObjectID, error) {
	if order == nil || order.SessionID == "" || order.Kind == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if order.ID.IsZero() {
		order.ID = internal.NewObjectID()
		order.CreatedAt = time.Now()
	}
	filter := bson.M{"_id": order.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.orders.ReplaceOne(ctx, filter, order, opts); err != nil {
		return internal.NilObjectID, err
	}
	return order.ID, nil
}

// Order returns the order with the given id, or ErrNotFound.
func (ms *MongoStorage) Order(id internal.ObjectID) (*Order, error) {
	if id.IsZero() {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	order := &Order{}
	if err := ms.orders.FindOne(ctx, bson.M{"_id": id}).Decode(order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// Orders returns all recorded orders, newest first.
func (ms *MongoStorage) Orders() ([]*Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := ms.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var orders []*Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderBySessionID returns the order recorded for a checkout session, or
// ErrNotFound.
func (ms *MongoStorage) OrderBySessionID(sessionID string) (*Order, error) {
	if sessionID == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	order := &Order{}
	if err := ms.orders.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}
