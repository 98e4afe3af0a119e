package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/models"
	"quill/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestClient_CreateEntry(t *testing.T) {
	var gotPath string
	var gotPayload validation.EntryPayload

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Entry{ID: 9, Title: *gotPayload.Title})
	})

	title, content := "T", "C"
	entry, err := client.CreateEntry(context.Background(), validation.EntryPayload{
		Title: &title, Content: &content, UserEmail: "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "POST /api/entries", gotPath)
	assert.Equal(t, uint(9), entry.ID)
	assert.Equal(t, "a@b.com", gotPayload.UserEmail)
}

func TestClient_ListEntriesQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]models.Entry{})
	})

	_, err := client.ListEntries(context.Background(), ListFilter{
		UserEmail: "a@b.com",
		Feeling:   "happy",
		StartDate: "2024-01-01",
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "user=a%40b.com")
	assert.Contains(t, gotQuery, "feeling=happy")
	assert.Contains(t, gotQuery, "startDate=2024-01-01")
	assert.Contains(t, gotQuery, "limit=10")
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     models.ErrorResponse
		wantCode string
	}{
		{"bad request", http.StatusBadRequest,
			models.ErrorResponse{Error: "title is required", Code: "VALIDATION_ERROR"}, "VALIDATION_ERROR"},
		{"not found", http.StatusNotFound,
			models.ErrorResponse{Error: "Entry with ID 7 not found", Code: "NOT_FOUND"}, "NOT_FOUND"},
		{"unauthorized", http.StatusUnauthorized,
			models.ErrorResponse{Error: "Invalid password", Code: "AUTH_CHALLENGE"}, "AUTH_CHALLENGE"},
		{"server error", http.StatusInternalServerError,
			models.ErrorResponse{Error: "boom"}, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			})

			_, err := client.GetEntry(context.Background(), 7)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestClient_VerifyPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "hunter2!" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Invalid password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})

	token, err := client.VerifyPassword(context.Background(), "a@b.com", "hunter2!")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	_, err = client.VerifyPassword(context.Background(), "a@b.com", "nope")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_CHALLENGE", appErr.Code)
}

func TestClient_DeleteEntryNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, client.DeleteEntry(context.Background(), 3))
}
