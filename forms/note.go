package forms

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// NoteForm represents the base form structure for note-related forms
type NoteForm struct{}

// SaveNote contains the fields required to save an indexed note
type SaveNote struct {
	Title string `form:"title" json:"title" binding:"required,min=1,max=256"`
	Body  string `form:"body" json:"body" binding:"required,min=1,max=16384"`
}

// Title returns the appropriate error message for title validation tags
func (f NoteForm) Title(tag string) string {
	switch tag {
	case "required":
		return "Please provide a title"
	case "min", "max":
		return "Title can be from 1 to 256 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// Body returns the appropriate error message for body validation tags
func (f NoteForm) Body(tag string) string {
	switch tag {
	case "required":
		return "Please provide note content"
	case "min", "max":
		return "Note content can be from 1 to 16384 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// Save validates a SaveNote form and returns appropriate error messages
func (f NoteForm) Save(err error) string {
	switch err.(type) {
	case validator.ValidationErrors:
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return "Something went wrong, please try again later"
		}

		for _, err := range err.(validator.ValidationErrors) {
			if err.Field() == "Title" {
				return f.Title(err.Tag())
			}
			if err.Field() == "Body" {
				return f.Body(err.Tag())
			}
		}
	default:
		return "Invalid request"
	}
	return "Something went wrong, please try again later"
}
