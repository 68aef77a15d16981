package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greekmarket/marketplace-backend/internal"
)

// SetListing creates or updates a steward listing. If the listing has no id,
// a new one is assigned and returned.
func (ms *MongoStorage) SetListing(listing *Listing) (internal.ObjectID, error) {
	if listing == nil || listing.Name == "" || listing.StewardID.IsZero() || listing.ChapterID.IsZero() {
		return internal.NilObjectID, ErrInvalidData
	}
	if listing.ShippingCents < 0 || listing.SuggestedDonationCents < 0 {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if listing.ID.IsZero() {
		listing.ID = internal.NewObjectID()
		listing.CreatedAt = time.Now()
	}
	filter := bson.M{"_id": listing.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.listings.ReplaceOne(ctx, filter, listing, opts); err != nil {
		return internal.NilObjectID, err
	}
	return listing.ID, nil
}

// Listing returns the listing with the given id, or ErrNotFound.
func (ms *MongoStorage) Listing(id internal.ObjectID) (*Listing, error) {
	if id.IsZero() {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	listing := &Listing{}
	if err := ms.listings.FindOne(ctx, bson.M{"_id": id}).Decode(listing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

// Listings returns all unclaimed listings.
func (ms *MongoStorage) Listings() ([]*Listing, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cur, err := ms.listings.Find(ctx, bson.M{"claimed": false})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var listings []*Listing
	if err := cur.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// ClaimListing marks a listing as claimed by the given buyer exactly once. A
// second call for the same listing returns ErrListingClaimed, so a
// redelivered webhook cannot fulfill the same claim twice.
func (ms *MongoStorage) ClaimListing(id internal.ObjectID, buyerEmail string) error {
	if id.IsZero() {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	result, err := ms.listings.UpdateOne(ctx,
		bson.M{"_id": id, "claimed": false},
		bson.M{"$set": bson.M{
			"claimed":   true,
			"claimedBy": buyerEmail,
			"claimedAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// distinguish a missing listing from an already-claimed one
		count, err := ms.listings.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrListingClaimed
	}
	return nil
}
