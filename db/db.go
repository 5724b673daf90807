package db

import (
	"context"
	"errors"

	"github.com/ansuman-shukla/hippocampus-backend/models"
)

// ErrNotFound is returned when a document does not exist or is not owned by
// the requesting user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("document not found")

// Database is the document-store surface used by the services. Every method
// that reads or mutates user data takes the owning user id and filters on it.
type Database interface {
	InsertMemory(ctx context.Context, memory models.Memory) (models.Memory, error)
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
	DeleteMemory(ctx context.Context, userID string, id models.DocID) error

	InsertNote(ctx context.Context, note models.Note) (models.Note, error)
	ListNotes(ctx context.Context, userID string) ([]models.Note, error)
	GetNote(ctx context.Context, userID string, id models.DocID) (models.Note, error)
	DeleteNote(ctx context.Context, userID string, id models.DocID) error

	GetSubscription(ctx context.Context, userID string) (models.Subscription, error)
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
}
