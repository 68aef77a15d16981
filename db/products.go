package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greekmarket/marketplace-backend/internal"
)

// SetProduct creates or updates a product. Money amounts must already be
// non-negative integer cents; anything else is rejected.
func (ms *MongoStorage) SetProduct(product *Product) (internal.ObjectID, error) {
	if product == nil || product.Name == "" || product.SellerID.IsZero() {
		return internal.NilObjectID, ErrInvalidData
	}
	if product.PriceCents < 0 {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if product.ID.IsZero() {
		product.ID = internal.NewObjectID()
		product.CreatedAt = time.Now()
	}
	filter := bson.M{"_id": product.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.products.ReplaceOne(ctx, filter, product, opts); err != nil {
		return internal.NilObjectID, err
	}
	return product.ID, nil
}

// Product returns the product with the given id, or ErrNotFound.
func (ms *MongoStorage) Product(id internal.ObjectID) (*Product, error) {
	if id.IsZero() {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	product := &Product{}
	if err := ms.products.FindOne(ctx, bson.M{"_id": id}).Decode(product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// Products returns all unsold products.
func (ms *MongoStorage) Products() ([]*Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cur, err := ms.products.Find(ctx, bson.M{"sold": false})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var products []*Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// MarkProductSold flips a product to sold exactly once. A second call for the
// same product returns ErrProductSold, so a redelivered webhook cannot
// fulfill the same sale twice.
func (ms *MongoStorage) MarkProductSold(id internal.ObjectID) error {
	if id.IsZero() {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	result, err := ms.products.UpdateOne(ctx,
		bson.M{"_id": id, "sold": false},
		bson.M{"$set": bson.M{"sold": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// distinguish a missing product from an already-sold one
		count, err := ms.products.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrProductSold
	}
	return nil
}
