package forms

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// MemoryForm represents the base form structure for memory-related forms
type MemoryForm struct{}

// SaveMemory contains the fields required to save a memory
type SaveMemory struct {
	Title string `form:"title" json:"title" binding:"required,min=1,max=256"`
	Note  string `form:"note" json:"note" binding:"required,min=1,max=8192"`
}

// Title returns the appropriate error message for title validation tags
func (f MemoryForm) Title(tag string) string {
	switch tag {
	case "required":
		return "Please provide a title"
	case "min", "max":
		return "Title can be from 1 to 256 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// Note returns the appropriate error message for note validation tags
func (f MemoryForm) Note(tag string) string {
	switch tag {
	case "required":
		return "Please provide note content"
	case "min", "max":
		return "Note content can be from 1 to 8192 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// Save validates a SaveMemory form and returns appropriate error messages
func (f MemoryForm) Save(err error) string {
	switch err.(type) {
	case validator.ValidationErrors:
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return "Something went wrong, please try again later"
		}

		for _, err := range err.(validator.ValidationErrors) {
			if err.Field() == "Title" {
				return f.Title(err.Tag())
			}
			if err.Field() == "Note" {
				return f.Note(err.Tag())
			}
		}
	default:
		return "Invalid request"
	}
	return "Something went wrong, please try again later"
}
