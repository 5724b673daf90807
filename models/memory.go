package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Memory is a user-owned saved document. Every query against the memories
// collection is filtered on UserID.
type Memory struct {
	ID        DocID  `json:"id" bson:"_id"`
	UserID    string `json:"user_id" bson:"user_id"`
	Title     string `json:"title" bson:"title"`
	Note      string `json:"note" bson:"note"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
	UpdatedAt int64  `json:"updated_at" bson:"updated_at"`
}

// Note is a user-owned text document whose body is also indexed in the
// vector store under the user's namespace. VectorID records the id of the
// indexed entry so deletes can reach both stores.
type Note struct {
	ID        DocID  `json:"id" bson:"_id"`
	UserID    string `json:"user_id" bson:"user_id"`
	Title     string `json:"title" bson:"title"`
	Body      string `json:"body" bson:"body"`
	VectorID  string `json:"vector_id,omitempty" bson:"vector_id,omitempty"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
	UpdatedAt int64  `json:"updated_at" bson:"updated_at"`
}

// DocID is a Mongo object id with string JSON form.
type DocID bson.ObjectID

// NewDocID returns a fresh document id.
func NewDocID() DocID {
	return DocID(bson.NewObjectID())
}

// ParseDocID parses the hex form of a document id.
func ParseDocID(id string) (DocID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return DocID{}, err
	}

	return DocID(oid), nil
}

func (id DocID) String() string {
	return bson.ObjectID(id).Hex()
}

// MarshalJSON renders the id as its hex string.
func (id DocID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON parses the hex string form.
func (id *DocID) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}

	parsed, err := ParseDocID(raw)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// MarshalBSONValue stores the id as a native ObjectID.
func (id DocID) MarshalBSONValue() (byte, []byte, error) {
	t, data, err := bson.MarshalValue(bson.ObjectID(id))
	return byte(t), data, err
}

// UnmarshalBSONValue reads the id back from a native ObjectID.
func (id *DocID) UnmarshalBSONValue(t byte, data []byte) error {
	var oid bson.ObjectID
	if err := bson.UnmarshalValue(bson.Type(t), data, &oid); err != nil {
		return err
	}

	*id = DocID(oid)
	return nil
}
