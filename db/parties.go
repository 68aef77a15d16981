package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greekmarket/marketplace-backend/internal"
)

// SetParty creates or updates a party. If the party has no id, a new one is
// assigned and returned.
func (ms *MongoStorage) SetParty(party *Party) (internal.ObjectID, error) {
	if party == nil || party.Email == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if party.ID.IsZero() {
		party.ID = internal.NewObjectID()
		party.CreatedAt = time.Now()
	}
	filter := bson.M{"_id": party.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := ms.parties.ReplaceOne(ctx, filter, party, opts); err != nil {
		return internal.NilObjectID, err
	}
	return party.ID, nil
}

// Party returns the party with the given id, or ErrNotFound.
func (ms *MongoStorage) Party(id internal.ObjectID) (*Party, error) {
	if id.IsZero() {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	party := &Party{}
	if err := ms.parties.FindOne(ctx, bson.M{"_id": id}).Decode(party); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return party, nil
}

// PartyByEmail returns the party with the given email, or ErrNotFound.
func (ms *MongoStorage) PartyByEmail(email string) (*Party, error) {
	if email == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	party := &Party{}
	if err := ms.parties.FindOne(ctx, bson.M{"email": email}).Decode(party); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return party, nil
}

// DelParty removes a party.
func (ms *MongoStorage) DelParty(id internal.ObjectID) error {
	if id.IsZero() {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err := ms.parties.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
