// Package validation defines explicit per-entity schemas. Each schema
// produces a tagged Result instead of raising errors, so callers decide how
// to surface failures.
package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"quill/internal/models"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating a payload against a schema.
type Result struct {
	Errors []FieldError
}

// Valid reports whether the payload passed validation.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err converts a failed Result into an AppError; returns nil when valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	parts := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return models.NewValidationError(strings.Join(parts, "; "))
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// EntryPayload is the wire shape accepted by create/update. Title and
// Content are pointers so "absent" and "empty string" stay distinguishable:
// an empty title is legal, a missing one is not.
type EntryPayload struct {
	Title     *string         `json:"title"`
	Content   *string         `json:"content"`
	MediaURLs []string        `json:"mediaUrls"`
	Feeling   *models.Feeling `json:"feeling"`
	Location  *string         `json:"location"`
	Sensitive bool            `json:"sensitive"`
	UserEmail string          `json:"userEmail"`
}

// EntrySchema validates entry create/update payloads.
type EntrySchema struct{}

// Validate checks the payload shape. It never mutates the payload.
func (EntrySchema) Validate(p EntryPayload) Result {
	var r Result

	if p.Title == nil {
		r.add("title", "is required (empty string is allowed, omission is not)")
	}
	if p.Content == nil {
		r.add("content", "is required")
	}

	for i, u := range p.MediaURLs {
		trimmed := strings.TrimSpace(u)
		if trimmed == "" {
			r.add("mediaUrls", fmt.Sprintf("element %d is blank", i))
			continue
		}
		// Persisted attachment references must be server URLs; locally-scoped
		// preview references must never reach the store.
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "blob:") || strings.HasPrefix(lower, "data:") {
			r.add("mediaUrls", fmt.Sprintf("element %d is a local preview reference, not an uploaded file URL", i))
		}
	}

	if p.Feeling != nil {
		if strings.TrimSpace(p.Feeling.Emoji) == "" || strings.TrimSpace(p.Feeling.Label) == "" {
			r.add("feeling", "requires both emoji and label")
		}
	}

	email := strings.TrimSpace(p.UserEmail)
	if email == "" {
		r.add("userEmail", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		r.add("userEmail", "is not a valid email address")
	}

	return r
}

// CommentPayload is the wire shape accepted when creating a comment.
type CommentPayload struct {
	Content   string `json:"content"`
	UserEmail string `json:"userEmail"`
}

// CommentSchema validates comment create payloads.
type CommentSchema struct{}

// Validate checks the payload shape.
func (CommentSchema) Validate(p CommentPayload) Result {
	var r Result

	if strings.TrimSpace(p.Content) == "" {
		r.add("content", "must not be empty")
	}

	email := strings.TrimSpace(p.UserEmail)
	if email == "" {
		r.add("userEmail", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		r.add("userEmail", "is not a valid email address")
	}

	return r
}
