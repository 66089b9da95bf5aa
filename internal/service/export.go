package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shelflog/shelflog-server/internal/domain"
	"github.com/shelflog/shelflog-server/internal/store"
)

// ExportService writes a user's log as CSV. Rows stream straight from
// the store, so exports stay flat in memory however large the log is.
type ExportService struct {
	store  store.Store
	logger *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(store store.Store, logger *slog.Logger) *ExportService {
	return &ExportService{
		store:  store,
		logger: logger,
	}
}

// bookColumns is the shared leading column set. Every export row
// starts with the book it refers to; missing fields export as "".
var bookColumns = []string{"title", "author", "year", "source_id", "image_url", "isbn_10", "isbn_13"}

func bookFields(book *domain.Book) []string {
	if book == nil {
		return make([]string, len(bookColumns))
	}
	return []string{
		book.Title,
		book.Author,
		book.Year,
		book.SourceID,
		book.ImageURL,
		book.ISBN10,
		book.ISBN13,
	}
}

// PlansCSV writes the user's plan list as CSV.
func (s *ExportService) PlansCSV(ctx context.Context, userID string, w io.Writer) error {
	runID := uuid.NewString()
	s.logger.Info("export started", "run_id", runID, "kind", "plans", "user_id", userID)

	writer := csv.NewWriter(w)
	header := append([]string{"plan_id"}, bookColumns...)
	header = append(header, "note", "date_added")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for plan, err := range s.store.StreamPlans(ctx, userID) {
		if err != nil {
			return fmt.Errorf("stream plans: %w", err)
		}
		record := append([]string{plan.ID}, bookFields(plan.Book)...)
		record = append(record, plan.Note, plan.DateAdded.String())
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("export finished", "run_id", runID, "kind", "plans", "rows", rows)
	return nil
}

// ReadingsCSV writes the user's reading list as CSV.
func (s *ExportService) ReadingsCSV(ctx context.Context, userID string, w io.Writer) error {
	runID := uuid.NewString()
	s.logger.Info("export started", "run_id", runID, "kind", "readings", "user_id", userID)

	writer := csv.NewWriter(w)
	header := append([]string{"reading_id"}, bookColumns...)
	header = append(header, "note", "date_started")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for reading, err := range s.store.StreamReadings(ctx, userID) {
		if err != nil {
			return fmt.Errorf("stream readings: %w", err)
		}
		record := append([]string{reading.ID}, bookFields(reading.Book)...)
		record = append(record, reading.Note, domain.FormatDate(reading.DateStarted))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("export finished", "run_id", runID, "kind", "readings", "rows", rows)
	return nil
}

// ReviewsCSV writes the user's reviews as CSV.
func (s *ExportService) ReviewsCSV(ctx context.Context, userID string, w io.Writer) error {
	runID := uuid.NewString()
	s.logger.Info("export started", "run_id", runID, "kind", "reviews", "user_id", userID)

	writer := csv.NewWriter(w)
	header := append([]string{"review_id"}, bookColumns...)
	header = append(header, "review_text", "date_read")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for review, err := range s.store.StreamReviews(ctx, userID) {
		if err != nil {
			return fmt.Errorf("stream reviews: %w", err)
		}
		record := append([]string{review.ID}, bookFields(review.Book)...)
		record = append(record, review.ReviewText, domain.FormatDate(review.DateRead))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("export finished", "run_id", runID, "kind", "reviews", "rows", rows)
	return nil
}

// Filename suggests a download filename for an export of the given
// kind, stamped with the export date.
func Filename(kind string) string {
	return fmt.Sprintf("shelflog-%s-%s.csv", kind, time.Now().Format("2006-01-02"))
}
