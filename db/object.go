package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Object returns the stored blob with the given id, or ErrNotFound.
func (ms *MongoStorage) Object(id string) (*Object, error) {
	if id == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	object := &Object{}
	if err := ms.objects.FindOne(ctx, bson.M{"_id": id}).Decode(object); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return object, nil
}

// SetObject stores a blob under the given id, replacing any previous
// contents.
func (ms *MongoStorage) SetObject(id, uploadedBy, contentType string, data []byte) error {
	if id == "" || len(data) == 0 {
		return ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	object := &Object{
		ID:          id,
		Data:        data,
		ContentType: contentType,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now(),
	}
	filter := bson.M{"_id": id}
	opts := options.Replace().SetUpsert(true)
	_, err := ms.objects.ReplaceOne(ctx, filter, object, opts)
	return err
}
