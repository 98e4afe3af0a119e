// Command seed populates the database with demo journal data.
package main

import (
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"
)

func main() {
	numOwners := flag.Int("owners", 3, "Number of journal owners to create")
	entriesPerOwner := flag.Int("entries", 20, "Number of entries per owner")
	maxDays := flag.Int("days", 90, "Spread entries over this many past days")
	shouldClean := flag.Bool("clean", true, "Clean entries and comments before seeding")
	flag.Parse()

	log.Printf("Seeding %d owners with %d entries each over %d days (clean=%v)",
		*numOwners, *entriesPerOwner, *maxDays, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if *shouldClean {
		if err := seed.Clean(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := seed.Run(db, seed.Options{
		NumOwners:       *numOwners,
		EntriesPerOwner: *entriesPerOwner,
		MaxDays:         *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete.")
}
