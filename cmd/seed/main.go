// Package main provides a tool to seed the database with sample log data.
//
// This creates a user (unless one already exists) and fills their log
// with a handful of plans, readings, and reviews to exercise list,
// search, and export features during development.
//
// Usage:
//
//	DATA_PATH=~/shelflog go run ./cmd/seed
//	DATA_PATH=~/shelflog go run ./cmd/seed --username alice --password sekret123
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shelflog/shelflog-server/internal/auth"
	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/id"
	"github.com/shelflog/shelflog-server/internal/service"
	"github.com/shelflog/shelflog-server/internal/store"
	"github.com/shelflog/shelflog-server/internal/store/sqlite"
)

var (
	username = flag.String("username", "reader", "Username for the seeded account")
	password = flag.String("password", "bookworm42", "Password for the seeded account")
	email    = flag.String("email", "", "Optional email for the seeded account")
)

type seedBook struct {
	title  string
	author string
	year   string
}

var seedBooks = []seedBook{
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "1968"},
	{"The Dispossessed", "Ursula K. Le Guin", "1974"},
	{"Dune", "Frank Herbert", "1965"},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "1969"},
	{"Piranesi", "Susanna Clarke", "2020"},
	{"The Name of the Rose", "Umberto Eco", "1980"},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/shelflog")
	}

	dbPath := filepath.Join(dataPath, "shelflog.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := ensureUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("Seeding log for user: %s (%s)\n", user.Username, user.ID)

	logService := service.NewLogService(s, logger)

	// Two plans
	for _, b := range seedBooks[:2] {
		plan, err := logService.CreatePlan(ctx, user.ID, service.CreatePlanRequest{
			Book: bookInput(b),
			Note: "recommended by a friend",
		})
		if err != nil {
			log.Printf("plan %q: %v", b.title, err)
			continue
		}
		fmt.Printf("  plan    %s  %s\n", plan.ID, b.title)
	}

	// Two in-progress readings
	for _, b := range seedBooks[2:4] {
		started := domain.Today()
		reading, err := logService.CreateReading(ctx, user.ID, service.CreateReadingRequest{
			Book:        bookInput(b),
			DateStarted: &started,
		})
		if err != nil {
			log.Printf("reading %q: %v", b.title, err)
			continue
		}
		fmt.Printf("  reading %s  %s\n", reading.ID, b.title)
	}

	// Two finished books with reviews
	for i, b := range seedBooks[4:] {
		read := domain.Today()
		review, err := logService.CreateReview(ctx, user.ID, service.CreateReviewRequest{
			Book:        bookInput(b),
			ReviewText:  "Loved it. Will read again.",
			DateRead:    &read,
			IsFavourite: i == 0,
		})
		if err != nil {
			log.Printf("review %q: %v", b.title, err)
			continue
		}
		fmt.Printf("  review  %s  %s\n", review.ID, b.title)
	}

	fmt.Println("Done.")
}

// ensureUser returns the existing account for the configured username,
// creating it when missing.
func ensureUser(ctx context.Context, s store.Store) (*domain.User, error) {
	if user, err := s.GetUserByUsername(ctx, *username); err == nil {
		fmt.Printf("User %q already exists, reusing\n", *username)
		return user, nil
	}

	passwordHash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     *username,
		PasswordHash: passwordHash,
		Email:        *email,
	}
	user.ID = id.MustGenerate("user")
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func bookInput(b seedBook) service.BookInput {
	return service.BookInput{
		Title:    b.title,
		Author:   b.author,
		Year:     b.year,
		SourceID: "seed-" + id.MustGenerate("vol"),
	}
}
