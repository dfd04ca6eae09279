// Command seed populates the database with demo admins, categories and
// submissions for local development.
package main

import (
	"flag"
	"log"

	"paydrop/internal/config"
	"paydrop/internal/database"
	"paydrop/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Admins, "admins", opts.Admins, "number of admin accounts")
	flag.IntVar(&opts.CategoriesPerAdmin, "categories", opts.CategoriesPerAdmin, "categories per admin")
	flag.IntVar(&opts.SubmissionsPerCategory, "submissions", opts.SubmissionsPerCategory, "submissions per category")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d admins (password %q), %d categories each, %d submissions per category",
		opts.Admins, seed.DemoPassword, opts.CategoriesPerAdmin, opts.SubmissionsPerCategory)
}
