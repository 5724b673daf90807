package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ansuman-shukla/hippocampus-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// verify MongoDB implements database interface in compile time
var _ Database = (*MongoDB)(nil)

const (
	MEMORY_COLL       = "memories"
	NOTE_COLL         = "notes"
	SUBSCRIPTION_COLL = "subscriptions"
)

type MongoDB struct {
	client *mongo.Client
	db     string
}

func NewMongoDB(conn string, db string) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conn))
	if err != nil {
		return nil, err
	}

	return &MongoDB{client: client, db: db}, nil
}

func (m *MongoDB) collection(name string) *mongo.Collection {
	return m.client.Database(m.db).Collection(name)
}

func (m *MongoDB) InsertMemory(ctx context.Context, memory models.Memory) (models.Memory, error) {
	now := time.Now().Unix()
	memory.CreatedAt = now
	memory.UpdatedAt = now

	_, err := m.collection(MEMORY_COLL).InsertOne(ctx, memory)
	if err != nil {
		slog.Error("failed to insert memory", "error", err, "user_id", memory.UserID)
		return models.Memory{}, err
	}

	return memory, nil
}

func (m *MongoDB) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	cursor, err := m.collection(MEMORY_COLL).Find(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		slog.Error("failed to list memories", "error", err, "user_id", userID)
		return nil, err
	}

	memories := []models.Memory{}
	if err := cursor.All(ctx, &memories); err != nil {
		return nil, err
	}

	return memories, nil
}

func (m *MongoDB) DeleteMemory(ctx context.Context, userID string, id models.DocID) error {
	result, err := m.collection(MEMORY_COLL).DeleteOne(ctx, ownedByID(userID, id))
	if err != nil {
		slog.Error("failed to delete memory", "error", err, "user_id", userID, "id", id.String())
		return err
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *MongoDB) InsertNote(ctx context.Context, note models.Note) (models.Note, error) {
	now := time.Now().Unix()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := m.collection(NOTE_COLL).InsertOne(ctx, note)
	if err != nil {
		slog.Error("failed to insert note", "error", err, "user_id", note.UserID)
		return models.Note{}, err
	}

	return note, nil
}

func (m *MongoDB) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	cursor, err := m.collection(NOTE_COLL).Find(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		slog.Error("failed to list notes", "error", err, "user_id", userID)
		return nil, err
	}

	notes := []models.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}

	return notes, nil
}

func (m *MongoDB) GetNote(ctx context.Context, userID string, id models.DocID) (note models.Note, err error) {
	err = m.collection(NOTE_COLL).FindOne(ctx, ownedByID(userID, id)).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}

	return note, err
}

func (m *MongoDB) DeleteNote(ctx context.Context, userID string, id models.DocID) error {
	result, err := m.collection(NOTE_COLL).DeleteOne(ctx, ownedByID(userID, id))
	if err != nil {
		slog.Error("failed to delete note", "error", err, "user_id", userID, "id", id.String())
		return err
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *MongoDB) GetSubscription(ctx context.Context, userID string) (sub models.Subscription, err error) {
	err = m.collection(SUBSCRIPTION_COLL).FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Subscription{}, ErrNotFound
	}

	return sub, err
}

func (m *MongoDB) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	sub.UpdatedAt = time.Now().Unix()

	_, err := m.collection(SUBSCRIPTION_COLL).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: sub.UserID}},
		sub,
		options.Replace().SetUpsert(true))
	if err != nil {
		slog.Error("failed to upsert subscription", "error", err, "user_id", sub.UserID)
	}

	return err
}

// ownedByID is the filter every by-id operation uses: the document id AND the
// owning user id, so one user can never touch another user's documents.
func ownedByID(userID string, id models.DocID) bson.D {
	return bson.D{
		{Key: "_id", Value: bson.ObjectID(id)},
		{Key: "user_id", Value: userID},
	}
}
