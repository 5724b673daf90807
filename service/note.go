package service

import (
	"context"
	"log/slog"

	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/kv"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	"github.com/ansuman-shukla/hippocampus-backend/vector"
)

const searchTopK = 10

// NoteService stores note documents and keeps the vector index in sync. The
// vector-store namespace is always the owning user's id, so one user's
// search never sees another user's notes.
type NoteService struct {
	db  db.Database
	vec vector.Store
	kv  kv.KeyValueStore
}

// NewNoteService creates a NoteService over the given stores.
func NewNoteService(database db.Database, vec vector.Store, store kv.KeyValueStore) *NoteService {
	return &NoteService{db: database, vec: vec, kv: store}
}

// Save stores a note and indexes its text in the user's namespace. If
// indexing fails the document is removed again so the two stores stay
// consistent.
func (s NoteService) Save(ctx context.Context, userID, title, body string) (models.Note, error) {
	note := models.Note{
		ID:     models.NewDocID(),
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	note.VectorID = note.ID.String()

	note, err := s.db.InsertNote(ctx, note)
	if err != nil {
		return models.Note{}, err
	}

	doc := vector.Document{
		ID:       note.VectorID,
		Text:     title + "\n" + body,
		Metadata: map[string]string{"title": title},
	}
	if err := s.vec.Upsert(ctx, userID, doc); err != nil {
		slog.Error("failed to index note, rolling back document", "error", err, "user_id", userID, "id", note.ID.String())
		if delErr := s.db.DeleteNote(ctx, userID, note.ID); delErr != nil {
			slog.Error("failed to roll back unindexed note", "error", delErr, "user_id", userID, "id", note.ID.String())
		}
		return models.Note{}, err
	}

	if _, err := s.kv.Incr(models.UsageKey(userID, "notes")); err != nil {
		slog.Error("failed to increment note usage counter", "error", err, "user_id", userID)
	}

	return note, nil
}

// List returns all notes owned by the user.
func (s NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	return s.db.ListNotes(ctx, userID)
}

// Search runs a semantic query over the user's indexed notes.
func (s NoteService) Search(ctx context.Context, userID, query string) ([]vector.Match, error) {
	return s.vec.Query(ctx, userID, query, searchTopK)
}

// Delete removes a note from both stores. The vector entry goes first so a
// partial failure cannot leave an indexed entry without its document.
func (s NoteService) Delete(ctx context.Context, userID string, id models.DocID) error {
	note, err := s.db.GetNote(ctx, userID, id)
	if err != nil {
		return err
	}

	if note.VectorID != "" {
		if err := s.vec.Delete(ctx, userID, []string{note.VectorID}); err != nil {
			return err
		}
	}

	return s.db.DeleteNote(ctx, userID, id)
}
