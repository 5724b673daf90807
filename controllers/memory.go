package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/forms"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	"github.com/ansuman-shukla/hippocampus-backend/service"
	"github.com/gin-gonic/gin"
)

// MemoryController handles the user-owned memory documents.
type MemoryController struct {
	memories *service.MemoryService
}

var memoryForm = new(forms.MemoryForm)

// NewMemoryController creates and returns a new MemoryController instance
func NewMemoryController(memories *service.MemoryService) *MemoryController {
	return &MemoryController{memories: memories}
}

// Save stores a new memory for the authenticated user.
func (ctrl MemoryController) Save(c *gin.Context) {
	var form forms.SaveMemory
	if err := c.ShouldBindJSON(&form); err != nil {
		message := memoryForm.Save(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": message})
		return
	}

	memory, err := ctrl.memories.Save(c.Request.Context(), getUserID(c), form.Title, form.Note)
	if err != nil {
		slog.Error("failed to save memory", "error", err, "user_id", getUserID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save memory"})
		return
	}

	c.JSON(http.StatusOK, memory)
}

// List returns every memory owned by the authenticated user.
func (ctrl MemoryController) List(c *gin.Context) {
	memories, err := ctrl.memories.List(c.Request.Context(), getUserID(c))
	if err != nil {
		slog.Error("failed to list memories", "error", err, "user_id", getUserID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list memories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(memories), "memories": memories})
}

// Delete removes one of the authenticated user's memories by id.
func (ctrl MemoryController) Delete(c *gin.Context) {
	id, err := models.ParseDocID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Invalid memory id"})
		return
	}

	if err := ctrl.memories.Delete(c.Request.Context(), getUserID(c), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "Memory not found"})
			return
		}
		slog.Error("failed to delete memory", "error", err, "user_id", getUserID(c), "id", id.String())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete memory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Memory deleted"})
}
