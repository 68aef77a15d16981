package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlatformSetting returns the setting stored under the given key, or
// ErrNotFound. An absent setting is a normal condition; callers fall back to
// their defaults.
func (ms *MongoStorage) PlatformSetting(key string) (*PlatformSetting, error) {
	if key == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	setting := &PlatformSetting{}
	if err := ms.settings.FindOne(ctx, bson.M{"_id": key}).Decode(setting); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return setting, nil
}

// SetPlatformSetting stores or replaces a setting value.
func (ms *MongoStorage) SetPlatformSetting(key, value string) error {
	if key == "" {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	filter := bson.M{"_id": key}
	opts := options.Replace().SetUpsert(true)
	_, err := ms.settings.ReplaceOne(ctx, filter, &PlatformSetting{Key: key, Value: value}, opts)
	return err
}

// DelPlatformSetting removes a setting. Removing an absent key is not an
// error.
func (ms *MongoStorage) DelPlatformSetting(key string) error {
	if key == "" {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err := ms.settings.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
