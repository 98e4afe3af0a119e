// Package upload streams media files to the server's upload endpoint and
// reports progress while the bytes are in flight.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"quill/internal/models"
)

// ProgressFunc receives upload progress as a percentage in [0,100]. It is
// called from the upload goroutine; implementations must be fast.
type ProgressFunc = func(percent int)

// Uploader posts files to POST /api/upload.
type Uploader struct {
	baseURL string
	httpc   *http.Client
}

// NewUploader creates an Uploader for the server at baseURL.
func NewUploader(baseURL string, opts ...Option) *Uploader {
	u := &Uploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Minute},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Option customizes an Uploader.
type Option func(*Uploader)

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(u *Uploader) { u.httpc = hc }
}

// Upload streams the reader to the server as a multipart "file" part and
// returns the stored media URL. Progress moves monotonically from 0 to 100;
// 100 is reported only after the server has accepted the file.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string, onProgress ProgressFunc) (string, error) {
	progress := newProgressTracker(size, onProgress)
	progress.report(0)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, progress.wrap(r)); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/upload", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpc.Do(req)
	if err != nil {
		return "", models.NewUploadError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var body models.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
		msg := body.Error
		if msg == "" {
			msg = resp.Status
		}
		return "", models.NewUploadError(fmt.Errorf("server rejected upload: %s", msg))
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", models.NewUploadError(err)
	}
	if result.URL == "" {
		return "", models.NewUploadError(fmt.Errorf("server returned no media URL"))
	}

	progress.report(100)
	return result.URL, nil
}

// progressTracker converts a byte count into monotonic percentages. In-flight
// progress is capped at 99 so only an accepted upload ever reads 100.
type progressTracker struct {
	mu    sync.Mutex
	total int64
	sent  int64
	last  int
	fn    ProgressFunc
}

func newProgressTracker(total int64, fn ProgressFunc) *progressTracker {
	return &progressTracker{total: total, last: -1, fn: fn}
}

func (p *progressTracker) wrap(r io.Reader) io.Reader {
	return &countingReader{r: r, tracker: p}
}

func (p *progressTracker) add(n int64) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	p.mu.Lock()
	p.sent += n
	percent := int(p.sent * 100 / p.total)
	if percent > 99 {
		percent = 99
	}
	p.mu.Unlock()
	p.report(percent)
}

func (p *progressTracker) report(percent int) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	if percent <= p.last {
		p.mu.Unlock()
		return
	}
	p.last = percent
	p.mu.Unlock()
	p.fn(percent)
}

type countingReader struct {
	r       io.Reader
	tracker *progressTracker
}

func (c *countingReader) Read(buf []byte) (int, error) {
	n, err := c.r.Read(buf)
	if n > 0 {
		c.tracker.add(int64(n))
	}
	return n, err
}
