package draft

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"quill/internal/models"
	"quill/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadResult struct {
	url string
	err error
}

// fakeUploader lets a test resolve uploads in any order it chooses.
type fakeUploader struct {
	mu  sync.Mutex
	chs map[string]chan uploadResult
}

func newFakeUploader(filenames ...string) *fakeUploader {
	f := &fakeUploader{chs: make(map[string]chan uploadResult)}
	for _, name := range filenames {
		f.chs[name] = make(chan uploadResult, 1)
	}
	return f
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader, _ int64, _ string, _ func(int)) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.mu.Lock()
	ch := f.chs[filename]
	f.mu.Unlock()
	res := <-ch
	return res.url, res.err
}

func (f *fakeUploader) complete(filename, url string) {
	f.chs[filename] <- uploadResult{url: url}
}

func (f *fakeUploader) fail(filename string, err error) {
	f.chs[filename] <- uploadResult{err: err}
}

// fakeSubmitter records the payload it was handed.
type fakeSubmitter struct {
	mu       sync.Mutex
	created  []validation.EntryPayload
	updated  map[uint]validation.EntryPayload
	err      error
	nextID   uint
	lastMode string
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{updated: make(map[uint]validation.EntryPayload), nextID: 100}
}

func (f *fakeSubmitter) CreateEntry(_ context.Context, p validation.EntryPayload) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMode = "create"
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	f.nextID++
	return &models.Entry{ID: f.nextID, Title: *p.Title, MediaURLs: p.MediaURLs, UserEmail: p.UserEmail}, nil
}

func (f *fakeSubmitter) UpdateEntry(_ context.Context, id uint, p validation.EntryPayload) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMode = "update"
	if f.err != nil {
		return nil, f.err
	}
	f.updated[id] = p
	return &models.Entry{ID: id, Title: *p.Title, MediaURLs: p.MediaURLs, UserEmail: p.UserEmail}, nil
}

func attach(d *Draft, name string) {
	d.AttachMedia(context.Background(), "blob:"+name, name, strings.NewReader("x"), 1, "image/jpeg")
}

func waitIdle(t *testing.T, d *Draft) {
	t.Helper()
	require.Eventually(t, func() bool { return !d.Uploading() },
		2*time.Second, 5*time.Millisecond)
}

func TestDraft_EditTransitionsToEditing(t *testing.T) {
	d := New("Owner@Example.com", newFakeUploader(), newFakeSubmitter(), Events{})
	assert.Equal(t, Empty, d.State())

	d.SetTitle("hello")
	assert.Equal(t, Editing, d.State())
}

func TestDraft_OutOfOrderCompletionKeepsInsertionOrder(t *testing.T) {
	up := newFakeUploader("a.jpg", "b.jpg", "c.jpg")
	d := New("o@e.com", up, newFakeSubmitter(), Events{})

	attach(d, "a.jpg")
	attach(d, "b.jpg")
	attach(d, "c.jpg")

	// Finish in reverse order.
	up.complete("c.jpg", "/media/c.jpg")
	up.complete("b.jpg", "/media/b.jpg")
	up.complete("a.jpg", "/media/a.jpg")
	waitIdle(t, d)

	assert.Equal(t, []string{"/media/a.jpg", "/media/b.jpg", "/media/c.jpg"}, d.MediaURLs())
}

func TestDraft_SubmitBlockedWhileUploading(t *testing.T) {
	up := newFakeUploader("a.jpg")
	sub := newFakeSubmitter()
	d := New("o@e.com", up, sub, Events{})
	d.SetContent("body")

	attach(d, "a.jpg")

	_, err := d.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, sub.created, "no network call may happen while uploads are in flight")

	up.complete("a.jpg", "/media/a.jpg")
	waitIdle(t, d)

	entry, err := d.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/a.jpg"}, entry.MediaURLs)
	assert.Equal(t, Persisted, d.State())
}

func TestDraft_FailedUploadRemovesSlotAndNotifies(t *testing.T) {
	up := newFakeUploader("ok.jpg", "bad.jpg")

	var mu sync.Mutex
	var failedRef string
	events := Events{
		UploadFailed: func(localRef string, err error) {
			mu.Lock()
			failedRef = localRef
			mu.Unlock()
		},
	}
	d := New("o@e.com", up, newFakeSubmitter(), events)

	attach(d, "ok.jpg")
	attach(d, "bad.jpg")

	up.fail("bad.jpg", errors.New("network down"))
	up.complete("ok.jpg", "/media/ok.jpg")
	waitIdle(t, d)

	assert.Equal(t, []string{"/media/ok.jpg"}, d.MediaURLs())
	require.Len(t, d.Attachments(), 1)

	mu.Lock()
	assert.Equal(t, "blob:bad.jpg", failedRef)
	mu.Unlock()
}

func TestDraft_RemoveMidUploadDiscardsResult(t *testing.T) {
	up := newFakeUploader("a.jpg")
	d := New("o@e.com", up, newFakeSubmitter(), Events{})

	attach(d, "a.jpg")
	require.NoError(t, d.RemoveAttachment(0))

	up.complete("a.jpg", "/media/a.jpg")
	waitIdle(t, d)

	assert.Empty(t, d.Attachments())
	assert.Empty(t, d.MediaURLs())
}

func TestDraft_RemoveOutOfRange(t *testing.T) {
	d := New("o@e.com", newFakeUploader(), newFakeSubmitter(), Events{})
	assert.Error(t, d.RemoveAttachment(0))
	assert.Error(t, d.RemoveAttachment(-1))
}

func TestDraft_DuplicateAttachmentsAllowed(t *testing.T) {
	up := newFakeUploader("a.jpg")
	up.chs["a.jpg"] = make(chan uploadResult, 2)
	d := New("o@e.com", up, newFakeSubmitter(), Events{})

	attach(d, "a.jpg")
	attach(d, "a.jpg")
	up.complete("a.jpg", "/media/a.jpg")
	up.complete("a.jpg", "/media/a.jpg")
	waitIdle(t, d)

	assert.Equal(t, []string{"/media/a.jpg", "/media/a.jpg"}, d.MediaURLs())
}

func TestDraft_SubmitFailurePreservesDraft(t *testing.T) {
	sub := newFakeSubmitter()
	sub.err = errors.New("server unavailable")
	d := New("o@e.com", newFakeUploader(), sub, Events{})
	d.SetTitle("keep me")
	d.SetContent("and me")

	_, err := d.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, SubmitFailed, d.State())

	// Retry after the server recovers; the same fields go out.
	sub.err = nil
	entry, err := d.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "keep me", entry.Title)
	assert.Equal(t, Persisted, d.State())
}

// slowSubmitter suspends CreateEntry until released so a test can edit the
// draft while the call is in flight.
type slowSubmitter struct {
	started  chan struct{}
	release  chan struct{}
	atStart  string
	atFinish string
}

func newSlowSubmitter() *slowSubmitter {
	return &slowSubmitter{started: make(chan struct{}), release: make(chan struct{})}
}

func (s *slowSubmitter) CreateEntry(_ context.Context, p validation.EntryPayload) (*models.Entry, error) {
	s.atStart = *p.Title
	close(s.started)
	<-s.release
	s.atFinish = *p.Title
	return &models.Entry{ID: 1, Title: *p.Title}, nil
}

func (s *slowSubmitter) UpdateEntry(_ context.Context, id uint, p validation.EntryPayload) (*models.Entry, error) {
	return &models.Entry{ID: id, Title: *p.Title}, nil
}

func TestDraft_SubmitPayloadFixedAtCallTime(t *testing.T) {
	sub := newSlowSubmitter()
	d := New("o@e.com", newFakeUploader(), sub, Events{})
	d.SetTitle("original")
	d.SetContent("body")

	done := make(chan struct{})
	var entry *models.Entry
	var submitErr error
	go func() {
		entry, submitErr = d.Submit(context.Background())
		close(done)
	}()

	<-sub.started
	d.SetTitle("edited-mid-flight")
	close(sub.release)
	<-done

	require.NoError(t, submitErr)
	assert.Equal(t, "original", sub.atStart)
	assert.Equal(t, "original", sub.atFinish,
		"the payload must be fixed when Submit() is called")
	assert.Equal(t, "original", entry.Title)
	assert.Equal(t, Persisted, d.State())
}

func TestDraft_NewFromEntrySubmitsAnUpdate(t *testing.T) {
	sub := newFakeSubmitter()
	loc := "Lisbon"
	existing := &models.Entry{
		ID:        7,
		Title:     "old title",
		Content:   "old content",
		MediaURLs: []string{"/media/kept.jpg"},
		Location:  &loc,
		UserEmail: "o@e.com",
	}

	d := NewFromEntry(existing, newFakeUploader(), sub, Events{})
	assert.Equal(t, Editing, d.State())
	assert.Equal(t, []string{"/media/kept.jpg"}, d.MediaURLs())

	d.SetTitle("new title")
	entry, err := d.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "update", sub.lastMode)
	assert.Equal(t, uint(7), entry.ID)
	assert.Equal(t, "new title", *sub.updated[7].Title)
	assert.Equal(t, []string{"/media/kept.jpg"}, sub.updated[7].MediaURLs)
}

func TestDraft_DiscardInvalidatesInFlightUploads(t *testing.T) {
	up := newFakeUploader("a.jpg")
	d := New("o@e.com", up, newFakeSubmitter(), Events{})
	d.SetTitle("x")

	attach(d, "a.jpg")
	d.Discard()

	up.complete("a.jpg", "/media/a.jpg")
	waitIdle(t, d)

	assert.Equal(t, Empty, d.State())
	assert.Empty(t, d.MediaURLs())
}
