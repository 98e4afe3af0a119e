package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload_Success(t *testing.T) {
	var receivedName string
	var receivedBytes int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		receivedName = header.Filename
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		receivedBytes = len(data)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "/media/abc-photo.jpg"})
	}))
	defer srv.Close()

	content := strings.Repeat("x", 64*1024)
	var progress []int
	u := NewUploader(srv.URL)

	url, err := u.Upload(context.Background(), "photo.jpg",
		strings.NewReader(content), int64(len(content)), "image/jpeg",
		func(p int) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Equal(t, "/media/abc-photo.jpg", url)
	assert.Equal(t, "photo.jpg", receivedName)
	assert.Equal(t, len(content), receivedBytes)

	// Progress starts at 0, ends at exactly 100, and never moves backwards.
	require.NotEmpty(t, progress)
	assert.Equal(t, 0, progress[0])
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
}

func TestUpload_ServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Upload failed"})
	}))
	defer srv.Close()

	var progress []int
	u := NewUploader(srv.URL)
	_, err := u.Upload(context.Background(), "photo.jpg",
		strings.NewReader("bytes"), 5, "image/jpeg",
		func(p int) { progress = append(progress, p) })

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPLOAD_ERROR", appErr.Code)

	// A failed upload must never report completion.
	for _, p := range progress {
		assert.Less(t, p, 100)
	}
}

func TestUpload_NilProgressFunc(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "/media/x.bin"})
	}))
	defer srv.Close()

	u := NewUploader(srv.URL)
	url, err := u.Upload(context.Background(), "x.bin", strings.NewReader("x"), 1, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/media/x.bin", url)
}
