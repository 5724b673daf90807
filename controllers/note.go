package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/forms"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	"github.com/ansuman-shukla/hippocampus-backend/service"
	"github.com/ansuman-shukla/hippocampus-backend/vector"
	"github.com/gin-gonic/gin"
)

// NoteController handles the vector-indexed note documents, including
// semantic search.
type NoteController struct {
	notes *service.NoteService
}

var noteForm = new(forms.NoteForm)

// NewNoteController creates and returns a new NoteController instance
func NewNoteController(notes *service.NoteService) *NoteController {
	return &NoteController{notes: notes}
}

// Save stores a note and indexes its text for search.
func (ctrl NoteController) Save(c *gin.Context) {
	var form forms.SaveNote
	if err := c.ShouldBindJSON(&form); err != nil {
		message := noteForm.Save(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": message})
		return
	}

	note, err := ctrl.notes.Save(c.Request.Context(), getUserID(c), form.Title, form.Body)
	if err != nil {
		if errors.Is(err, vector.ErrUnavailable) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Search index is unavailable. Please try again later."})
			return
		}
		slog.Error("failed to save note", "error", err, "user_id", getUserID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save note"})
		return
	}

	c.JSON(http.StatusOK, note)
}

// List returns every note owned by the authenticated user.
func (ctrl NoteController) List(c *gin.Context) {
	notes, err := ctrl.notes.List(c.Request.Context(), getUserID(c))
	if err != nil {
		slog.Error("failed to list notes", "error", err, "user_id", getUserID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(notes), "notes": notes})
}

// Search runs a semantic query over the authenticated user's notes.
func (ctrl NoteController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Query parameter q is required"})
		return
	}

	matches, err := ctrl.notes.Search(c.Request.Context(), getUserID(c), query)
	if err != nil {
		if errors.Is(err, vector.ErrUnavailable) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Search index is unavailable. Please try again later."})
			return
		}
		slog.Error("note search failed", "error", err, "user_id", getUserID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(matches), "matches": matches})
}

// Delete removes a note and its index entry.
func (ctrl NoteController) Delete(c *gin.Context) {
	id, err := models.ParseDocID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid note id"})
		return
	}

	if err := ctrl.notes.Delete(c.Request.Context(), getUserID(c), id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "Note not found"})
		case errors.Is(err, vector.ErrUnavailable):
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Search index is unavailable. Please try again later."})
		default:
			slog.Error("failed to delete note", "error", err, "user_id", getUserID(c), "id", id.String())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete note"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note deleted"})
}
