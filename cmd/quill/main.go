// Command quill is a small CLI for composing a journal entry against a
// running server. It drives the same client stack the UI uses: a draft with
// concurrent attachment uploads, submitted once every upload has landed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quill/internal/client/api"
	"quill/internal/client/draft"
	"quill/internal/client/localstore"
	"quill/internal/client/upload"
	"quill/internal/models"
)

type attachFlags []string

func (a *attachFlags) String() string { return strings.Join(*a, ",") }

func (a *attachFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	var attachments attachFlags
	serverURL := flag.String("server", "http://localhost:8080", "Quill server base URL")
	owner := flag.String("owner", "", "Owner email (required)")
	title := flag.String("title", "", "Entry title")
	content := flag.String("content", "", "Entry body text")
	feeling := flag.String("feeling", "", "Mood as emoji:label, e.g. 😊:happy")
	location := flag.String("location", "", "Location text")
	sensitive := flag.Bool("sensitive", false, "Mark the entry sensitive")
	cachePath := flag.String("cache", defaultCachePath(), "Local cache database path")
	flag.Var(&attachments, "attach", "File to attach (repeatable)")
	flag.Parse()

	if *owner == "" {
		log.Fatal("-owner is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	client := api.NewClient(*serverURL)
	uploader := upload.NewUploader(*serverURL)

	events := draft.Events{
		UploadFailed: func(localRef string, err error) {
			log.Printf("upload failed for %s: %v", localRef, err)
		},
		UploadFinished: func(localRef, url string) {
			log.Printf("uploaded %s -> %s", localRef, url)
		},
	}
	d := draft.New(*owner, uploader, client, events)
	d.SetTitle(*title)
	d.SetContent(*content)
	d.SetSensitive(*sensitive)
	if *location != "" {
		d.SetLocation(location)
	}
	if *feeling != "" {
		f, err := parseFeeling(*feeling)
		if err != nil {
			log.Fatalf("invalid -feeling: %v", err)
		}
		d.SetFeeling(f)
	}

	for _, path := range attachments {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("opening attachment: %v", err)
		}
		info, err := f.Stat()
		if err != nil {
			log.Fatalf("stat attachment: %v", err)
		}
		contentType := mime.TypeByExtension(filepath.Ext(path))
		d.AttachMedia(ctx, path, filepath.Base(path), f, info.Size(), contentType)
	}

	// Submit refuses while uploads are in flight, so wait for them first.
	for d.Uploading() {
		select {
		case <-ctx.Done():
			log.Fatalf("timed out waiting for uploads: %v", ctx.Err())
		case <-time.After(100 * time.Millisecond):
		}
	}

	store, err := localstore.Open(*cachePath)
	if err != nil {
		log.Printf("warning: local cache unavailable: %v", err)
	} else {
		defer store.Close()
	}

	draftKey := fmt.Sprintf("draft-%s-%d", *owner, time.Now().UnixNano())
	entry, err := d.Submit(ctx)
	if err != nil {
		if store != nil {
			if cerr := cacheDraft(store, draftKey, d, localstore.StatusFailed); cerr != nil {
				log.Printf("warning: could not record failed draft: %v", cerr)
			}
		}
		log.Fatalf("submit failed: %v", err)
	}

	if store != nil {
		if cerr := cacheEntry(store, entry); cerr != nil {
			log.Printf("warning: could not update local cache: %v", cerr)
		}
	}

	fmt.Printf("Created entry %d (%d attachments)\n", entry.ID, len(entry.MediaURLs))
}

func parseFeeling(s string) (*models.Feeling, error) {
	emoji, label, ok := strings.Cut(s, ":")
	if !ok || emoji == "" || label == "" {
		return nil, fmt.Errorf("expected emoji:label, got %q", s)
	}
	return &models.Feeling{Emoji: emoji, Label: label}, nil
}

func cacheEntry(store *localstore.Store, entry *models.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("entry-%d", entry.ID)
	return store.Put(key, entry.ID, string(payload), localstore.StatusSynced)
}

func cacheDraft(store *localstore.Store, key string, d *draft.Draft, status localstore.SyncStatus) error {
	snapshot := map[string]any{
		"mediaUrls": d.MediaURLs(),
		"state":     d.State().String(),
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return store.Put(key, 0, string(payload), status)
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quill-cache.db"
	}
	return filepath.Join(home, ".quill", "cache.db")
}
