// Package draft implements the client-side composition state machine for a
// journal entry: text fields, mood, location, and a list of media
// attachments whose uploads run concurrently while the list keeps its
// insertion order.
package draft

import (
	"context"
	"fmt"
	"io"
	"sync"

	"quill/internal/models"
	"quill/internal/validation"
)

// State is the lifecycle phase of a draft.
type State int

const (
	// Empty is a fresh draft with nothing entered yet.
	Empty State = iota
	// Editing means at least one field has been touched.
	Editing
	// Submitting means Submit is in flight.
	Submitting
	// Persisted means the server accepted the entry.
	Persisted
	// SubmitFailed means the last Submit failed; the draft is intact.
	SubmitFailed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Persisted:
		return "persisted"
	case SubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

// AttachmentState is the lifecycle phase of one attachment slot.
type AttachmentState int

const (
	// Selected means the slot is reserved but the upload has not started.
	Selected AttachmentState = iota
	// Uploading means bytes are in flight.
	Uploading
	// Uploaded means the slot holds a server URL.
	Uploaded
	// UploadFailed means the upload failed; the slot is removed right after
	// the caller is notified.
	UploadFailed
)

// Attachment is a snapshot of one slot.
type Attachment struct {
	// LocalRef is the client-side preview reference, valid until the upload
	// completes or the slot is removed.
	LocalRef string
	// URL is the server media URL once State is Uploaded.
	URL   string
	State AttachmentState
}

// Uploader sends one file to the server and returns its media URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string, onProgress func(int)) (string, error)
}

// Submitter persists the finished payload, creating or replacing an entry.
type Submitter interface {
	CreateEntry(ctx context.Context, payload validation.EntryPayload) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id uint, payload validation.EntryPayload) (*models.Entry, error)
}

// Events receives notifications from the draft. All callbacks fire outside
// the draft's lock and may be invoked from upload goroutines.
type Events struct {
	// UploadFailed fires after a failed upload's slot has been removed.
	UploadFailed func(localRef string, err error)
	// UploadFinished fires after a slot transitions to Uploaded.
	UploadFinished func(localRef, url string)
}

type slot struct {
	localRef string
	url      string
	state    AttachmentState
	gen      uint64
}

// Draft accumulates entry fields and attachments before submission.
type Draft struct {
	mu sync.Mutex

	state     State
	entryID   uint // non-zero when editing an existing entry
	title     string
	content   string
	feeling   *models.Feeling
	location  *string
	sensitive bool
	userEmail string

	slots   []*slot
	nextGen uint64

	uploader  Uploader
	submitter Submitter
	events    Events
}

// New starts a blank draft for the given owner.
func New(owner string, uploader Uploader, submitter Submitter, events Events) *Draft {
	return &Draft{
		state:     Empty,
		userEmail: models.NormalizeEmail(owner),
		uploader:  uploader,
		submitter: submitter,
		events:    events,
	}
}

// NewFromEntry starts a draft pre-filled from an existing entry. Submitting
// it updates that entry. No uploads are fired for the existing media.
func NewFromEntry(entry *models.Entry, uploader Uploader, submitter Submitter, events Events) *Draft {
	d := New(entry.UserEmail, uploader, submitter, events)
	d.state = Editing
	d.entryID = entry.ID
	d.title = entry.Title
	d.content = entry.Content
	d.feeling = entry.Feeling
	d.location = entry.Location
	d.sensitive = entry.Sensitive
	for _, url := range entry.MediaURLs {
		d.slots = append(d.slots, &slot{localRef: url, url: url, state: Uploaded})
	}
	return d
}

// State returns the current lifecycle phase.
func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SetTitle updates the title field.
func (d *Draft) SetTitle(title string) { d.edit(func() { d.title = title }) }

// SetContent updates the body text.
func (d *Draft) SetContent(content string) { d.edit(func() { d.content = content }) }

// SetFeeling updates the mood tag; nil clears it.
func (d *Draft) SetFeeling(f *models.Feeling) { d.edit(func() { d.feeling = f }) }

// SetLocation updates the location; nil clears it.
func (d *Draft) SetLocation(loc *string) { d.edit(func() { d.location = loc }) }

// SetSensitive marks the entry as password-gated.
func (d *Draft) SetSensitive(sensitive bool) { d.edit(func() { d.sensitive = sensitive }) }

func (d *Draft) edit(apply func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	apply()
	if d.state == Empty || d.state == Persisted || d.state == SubmitFailed {
		d.state = Editing
	}
}

// AttachMedia reserves the next attachment slot and starts the upload in the
// background. The slot's position in the media list is fixed now, no matter
// when (or whether) the upload finishes. localRef is the caller's preview
// reference for this file; duplicates are allowed.
func (d *Draft) AttachMedia(ctx context.Context, localRef, filename string, r io.Reader, size int64, contentType string) {
	d.mu.Lock()
	d.nextGen++
	s := &slot{localRef: localRef, state: Uploading, gen: d.nextGen}
	d.slots = append(d.slots, s)
	if d.state == Empty || d.state == Persisted || d.state == SubmitFailed {
		d.state = Editing
	}
	gen := s.gen
	d.mu.Unlock()

	go d.runUpload(ctx, gen, localRef, filename, r, size, contentType)
}

func (d *Draft) runUpload(ctx context.Context, gen uint64, localRef, filename string, r io.Reader, size int64, contentType string) {
	url, err := d.uploader.Upload(ctx, filename, r, size, contentType, nil)

	d.mu.Lock()
	s := d.findSlot(gen)
	if s == nil {
		// Slot was removed mid-upload; discard the result.
		d.mu.Unlock()
		return
	}
	if err != nil {
		s.state = UploadFailed
		d.removeSlotLocked(s)
		d.mu.Unlock()
		if d.events.UploadFailed != nil {
			d.events.UploadFailed(localRef, err)
		}
		return
	}
	s.url = url
	s.state = Uploaded
	d.mu.Unlock()
	if d.events.UploadFinished != nil {
		d.events.UploadFinished(localRef, url)
	}
}

func (d *Draft) findSlot(gen uint64) *slot {
	for _, s := range d.slots {
		if s.gen == gen {
			return s
		}
	}
	return nil
}

func (d *Draft) removeSlotLocked(target *slot) {
	for i, s := range d.slots {
		if s == target {
			d.slots = append(d.slots[:i], d.slots[i+1:]...)
			return
		}
	}
}

// RemoveAttachment deletes the slot at index. Removing a slot whose upload
// is still in flight invalidates it, so the eventual result is discarded;
// the upload request itself is not force-cancelled.
func (d *Draft) RemoveAttachment(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.slots) {
		return fmt.Errorf("attachment index %d out of range (have %d)", index, len(d.slots))
	}
	d.slots = append(d.slots[:index], d.slots[index+1:]...)
	return nil
}

// Attachments returns a snapshot of the slots in insertion order.
func (d *Draft) Attachments() []Attachment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Attachment, len(d.slots))
	for i, s := range d.slots {
		out[i] = Attachment{LocalRef: s.localRef, URL: s.url, State: s.state}
	}
	return out
}

// MediaURLs returns the uploaded server URLs in insertion order. Slots still
// uploading have no URL yet and are skipped.
func (d *Draft) MediaURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mediaURLsLocked()
}

func (d *Draft) mediaURLsLocked() []string {
	urls := make([]string, 0, len(d.slots))
	for _, s := range d.slots {
		if s.state == Uploaded {
			urls = append(urls, s.url)
		}
	}
	return urls
}

// Uploading reports whether any attachment upload is still in flight.
func (d *Draft) Uploading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploadingLocked()
}

func (d *Draft) uploadingLocked() bool {
	for _, s := range d.slots {
		if s.state == Uploading || s.state == Selected {
			return true
		}
	}
	return false
}

// Submit persists the draft. It refuses to start while any upload is in
// flight. On failure the draft keeps every field for retry; on success the
// draft carries the persisted entry.
func (d *Draft) Submit(ctx context.Context) (*models.Entry, error) {
	d.mu.Lock()
	if d.state == Submitting {
		d.mu.Unlock()
		return nil, fmt.Errorf("submit already in progress")
	}
	if d.uploadingLocked() {
		d.mu.Unlock()
		return nil, fmt.Errorf("cannot submit while attachments are uploading")
	}

	// Snapshot the fields so edits made while the call is in flight cannot
	// leak into the payload the submitter is serializing.
	title := d.title
	content := d.content
	payload := validation.EntryPayload{
		Title:     &title,
		Content:   &content,
		MediaURLs: d.mediaURLsLocked(),
		Feeling:   d.feeling,
		Location:  d.location,
		Sensitive: d.sensitive,
		UserEmail: d.userEmail,
	}
	entryID := d.entryID
	d.state = Submitting
	d.mu.Unlock()

	var entry *models.Entry
	var err error
	if entryID != 0 {
		entry, err = d.submitter.UpdateEntry(ctx, entryID, payload)
	} else {
		entry, err = d.submitter.CreateEntry(ctx, payload)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = SubmitFailed
		return nil, err
	}
	d.state = Persisted
	d.entryID = entry.ID
	return entry, nil
}

// Discard abandons the draft. All in-flight uploads are invalidated so
// their results are dropped when they land.
func (d *Draft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots = nil
	d.state = Empty
	d.title = ""
	d.content = ""
	d.feeling = nil
	d.location = nil
	d.sensitive = false
	d.entryID = 0
}
