package service

import (
	"context"
	"log/slog"

	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/kv"
	"github.com/ansuman-shukla/hippocampus-backend/models"
)

// MemoryService handles the user-owned memory documents.
type MemoryService struct {
	db db.Database
	kv kv.KeyValueStore
}

// NewMemoryService creates a MemoryService over the given stores.
func NewMemoryService(database db.Database, store kv.KeyValueStore) *MemoryService {
	return &MemoryService{db: database, kv: store}
}

// Save stores a new memory for the user and bumps their usage counter.
func (s MemoryService) Save(ctx context.Context, userID, title, note string) (models.Memory, error) {
	memory := models.Memory{
		ID:     models.NewDocID(),
		UserID: userID,
		Title:  title,
		Note:   note,
	}

	memory, err := s.db.InsertMemory(ctx, memory)
	if err != nil {
		return models.Memory{}, err
	}

	// Usage tracking is best effort; a counter failure never fails a save.
	if _, err := s.kv.Incr(models.UsageKey(userID, "memories")); err != nil {
		slog.Error("failed to increment memory usage counter", "error", err, "user_id", userID)
	}

	return memory, nil
}

// List returns all memories owned by the user.
func (s MemoryService) List(ctx context.Context, userID string) ([]models.Memory, error) {
	return s.db.ListMemories(ctx, userID)
}

// Delete removes one of the user's memories by id.
func (s MemoryService) Delete(ctx context.Context, userID string, id models.DocID) error {
	return s.db.DeleteMemory(ctx, userID, id)
}
