// Package seed provides helpers to create demo journal data for development
// and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumOwners       int
	EntriesPerOwner int
	MaxDays         int
	ShouldClean     bool
}

var feelings = []models.Feeling{
	{Emoji: "😊", Label: "Happy"},
	{Emoji: "😌", Label: "Calm"},
	{Emoji: "😔", Label: "Gloomy"},
	{Emoji: "🤩", Label: "Excited"},
	{Emoji: "😤", Label: "Frustrated"},
	{Emoji: "🥱", Label: "Tired"},
	{Emoji: "🧘", Label: "Grounded"},
}

// Factory builds journal entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildEntry constructs an entry for the owner without persisting it.
func (f *Factory) BuildEntry(ownerEmail string) *models.Entry {
	entry := &models.Entry{
		Title:     gofakeit.Sentence(4),
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		UserEmail: models.NormalizeEmail(ownerEmail),
	}

	if f.rng.Intn(100) < 70 {
		feeling := feelings[f.rng.Intn(len(feelings))]
		entry.Feeling = &feeling
	}
	if f.rng.Intn(100) < 40 {
		loc := fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country())
		entry.Location = &loc
	}
	if f.rng.Intn(100) < 30 {
		n := 1 + f.rng.Intn(3)
		for i := 0; i < n; i++ {
			entry.MediaURLs = append(entry.MediaURLs,
				fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
		}
	}
	entry.Sensitive = f.rng.Intn(100) < 10

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	entry.CreatedAt = time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rng.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)

	return entry
}

// BuildComment constructs a comment on the entry without persisting it.
func (f *Factory) BuildComment(entry *models.Entry, authorEmail string) *models.Comment {
	return &models.Comment{
		EntryID:   entry.ID,
		Content:   gofakeit.Sentence(6 + f.rng.Intn(10)),
		UserEmail: models.NormalizeEmail(authorEmail),
		CreatedAt: entry.CreatedAt.Add(time.Duration(1+f.rng.Intn(72)) * time.Hour),
	}
}

// Run seeds owners, entries and comments according to the options.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return err
		}
	}

	f := NewFactory(db, opts)

	owners := make([]string, 0, opts.NumOwners)
	for i := 0; i < opts.NumOwners; i++ {
		owners = append(owners, models.NormalizeEmail(gofakeit.Email()))
	}

	total := 0
	for _, owner := range owners {
		for i := 0; i < opts.EntriesPerOwner; i++ {
			entry := f.BuildEntry(owner)
			if err := db.Create(entry).Error; err != nil {
				return fmt.Errorf("seed entry: %w", err)
			}
			total++

			nComments := f.rng.Intn(4)
			for j := 0; j < nComments; j++ {
				author := owners[f.rng.Intn(len(owners))]
				if err := db.Create(f.BuildComment(entry, author)).Error; err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}
		}
	}

	log.Printf("Seeded %d entries for %d owners", total, len(owners))
	return nil
}

// Clean removes all seeded journal data.
func Clean(db *gorm.DB) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&models.Entry{}).Error
}
