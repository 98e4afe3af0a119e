package server

import (
	"fmt"
	"net/http"
	"testing"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEntry(t *testing.T, app *fiber.App) models.Entry {
	t.Helper()
	resp, data := doJSON(t, app, http.MethodPost, "/api/entries", entryBody(nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeJSON[models.Entry](t, data)
}

func TestCreateAndListComments(t *testing.T) {
	app, _ := newTestApp(t)
	entry := createTestEntry(t, app)

	path := fmt.Sprintf("/api/entries/%d/comments", entry.ID)

	resp, data := doJSON(t, app, http.MethodPost, path,
		map[string]any{"content": "lovely photo", "userEmail": "Reader@Example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[models.Comment](t, data)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "reader@example.com", created.UserEmail)

	resp, _ = doJSON(t, app, http.MethodPost, path,
		map[string]any{"content": "me too", "userEmail": "reader@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data = doJSON(t, app, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeJSON[[]models.Comment](t, data)
	require.Len(t, comments, 2)
	assert.Equal(t, "lovely photo", comments[0].Content)
	assert.Equal(t, "me too", comments[1].Content)
}

func TestCreateComment_Validation(t *testing.T) {
	app, _ := newTestApp(t)
	entry := createTestEntry(t, app)
	path := fmt.Sprintf("/api/entries/%d/comments", entry.ID)

	resp, _ := doJSON(t, app, http.MethodPost, path,
		map[string]any{"content": "", "userEmail": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, path,
		map[string]any{"content": "hi", "userEmail": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateComment_MissingEntry(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/entries/999/comments",
		map[string]any{"content": "hi", "userEmail": "a@b.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListComments_MissingEntry(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/entries/999/comments", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListComments_EmptyIsJSONArray(t *testing.T) {
	app, _ := newTestApp(t)
	entry := createTestEntry(t, app)

	resp, data := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/entries/%d/comments", entry.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(data))
}

func TestDeleteComment(t *testing.T) {
	app, _ := newTestApp(t)
	entry := createTestEntry(t, app)
	path := fmt.Sprintf("/api/entries/%d/comments", entry.ID)

	resp, data := doJSON(t, app, http.MethodPost, path,
		map[string]any{"content": "bye", "userEmail": "a@b.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decodeJSON[models.Comment](t, data)

	deletePath := fmt.Sprintf("/api/entries/%d/comments/%d", entry.ID, comment.ID)
	resp, _ = doJSON(t, app, http.MethodDelete, deletePath, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, deletePath, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteComment_WrongEntryInPath(t *testing.T) {
	app, _ := newTestApp(t)
	entry := createTestEntry(t, app)
	other := createTestEntry(t, app)
	path := fmt.Sprintf("/api/entries/%d/comments", entry.ID)

	resp, data := doJSON(t, app, http.MethodPost, path,
		map[string]any{"content": "keep me", "userEmail": "a@b.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decodeJSON[models.Comment](t, data)

	// Reaching the comment through another entry's path must not delete it.
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/entries/%d/comments/%d", other.ID, comment.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = doJSON(t, app, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeJSON[[]models.Comment](t, data)
	require.Len(t, comments, 1)
	assert.Equal(t, "keep me", comments[0].Content)
}
