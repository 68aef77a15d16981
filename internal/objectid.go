package internal

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID is the identifier type of every stored marketplace entity. It is
// backed by a Mongo object id but keeps the driver type out of public
// signatures and renders as a bare 24-character hex string in JSON and logs.
type ObjectID primitive.ObjectID

// NilObjectID is the zero ObjectID.
var NilObjectID ObjectID

// NewObjectID returns a fresh unique id.
func NewObjectID() ObjectID {
	return ObjectID(primitive.NewObjectID())
}

// ObjectIDFromHex parses a 24-character hex string into an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	return ObjectID(id), err
}

// Hex returns the hex string form of the id.
func (id ObjectID) Hex() string {
	return primitive.ObjectID(id).Hex()
}

// String implements fmt.Stringer as the bare hex form.
func (id ObjectID) String() string {
	return id.Hex()
}

// IsZero reports whether the id is unset.
func (id ObjectID) IsZero() bool {
	return primitive.ObjectID(id).IsZero()
}

// Timestamp extracts the creation time embedded in the id.
func (id ObjectID) Timestamp() time.Time {
	return primitive.ObjectID(id).Timestamp()
}

// JSON and text encodings delegate to the hex form.

func (id ObjectID) MarshalJSON() ([]byte, error) {
	return primitive.ObjectID(id).MarshalJSON()
}

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	return (*primitive.ObjectID)(id).UnmarshalJSON(b)
}

func (id ObjectID) MarshalText() ([]byte, error) {
	return primitive.ObjectID(id).MarshalText()
}

func (id *ObjectID) UnmarshalText(b []byte) error {
	return (*primitive.ObjectID)(id).UnmarshalText(b)
}

// BSON value encoding stores the id as a native object id, so _id filters
// built from either type match the same documents.

func (id ObjectID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

func (id *ObjectID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	return bson.UnmarshalValue(t, data, (*primitive.ObjectID)(id))
}
